package auth

import (
	"errors"
	"strings"
)

var (
	ErrMissingAuthorization = errors.New("authorization header is empty")
	ErrNotBearer            = errors.New("invalid authorization header format, expected 'Bearer <token>'")
)

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// value. The scheme is case-insensitive and surrounding spaces are ignored.
func ExtractBearerToken(authHeader string) (string, error) {
	fields := strings.Fields(authHeader)
	switch {
	case len(fields) == 0:
		return "", ErrMissingAuthorization
	case len(fields) != 2 || !strings.EqualFold(fields[0], "bearer"):
		return "", ErrNotBearer
	}
	return fields[1], nil
}
