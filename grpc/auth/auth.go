package auth

import (
	"context"
)

type Auth interface {
	// Verify checks an ID token and returns the email it was issued to.
	Verify(ctx context.Context, token string) (string, error)
}
