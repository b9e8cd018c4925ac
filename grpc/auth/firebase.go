package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	fbAuth "firebase.google.com/go/auth"

	"github.com/cardapio-project/cardapio/pkg/utils"
)

type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbAuth.Token, error)
}

type Authenticator struct {
	client FirebaseAuthClient

	// Email domains allowed to call the service, e.g. "cardapio.app".
	// Empty accepts any verified email.
	allowedDomains []string
}

func New(client FirebaseAuthClient, allowedDomains []string) *Authenticator {
	return &Authenticator{
		client:         client,
		allowedDomains: utils.Map(allowedDomains, strings.ToLower),
	}
}

func (a *Authenticator) Verify(ctx context.Context, token string) (string, error) {
	decodedToken, err := a.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	rawEmail, ok := decodedToken.Claims["email"]
	if !ok {
		return "", fmt.Errorf("failed to verify the token: invalid email in claim")
	}

	email, ok := rawEmail.(string)
	if !ok {
		return "", fmt.Errorf("failed to verify the token: invalid email in claim")
	}

	_, err = mail.ParseAddress(email)
	if err != nil {
		return "", fmt.Errorf("failed to verify the token: invalid email format")
	}
	splitEmail := strings.Split(email, "@")
	if len(splitEmail) != 2 {
		return "", fmt.Errorf("failed to verify the token: malformed email structure (expected single '@')")
	}
	domain := strings.ToLower(splitEmail[1])
	if len(a.allowedDomains) > 0 && !utils.Contains(a.allowedDomains, domain) {
		return "", fmt.Errorf("failed to verify the token: invalid email domain")
	}

	return email, nil
}
