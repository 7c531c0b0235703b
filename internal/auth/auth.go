// Package auth verifies bearer credentials and enforces directory roles on
// gin routes. Token verification is delegated to a Verifier; roles always
// come from the Directory store, never from the token.
package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

// Identity is the verified caller.
type Identity struct {
	UID   string
	Email string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Firebase verifies Firebase ID tokens.
type Firebase struct {
	client idTokenVerifier
}

func NewFirebase(client *fbauth.Client) *Firebase {
	return &Firebase{client: client}
}

func (f *Firebase) Verify(ctx context.Context, token string) (Identity, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	email, _ := decoded.Claims["email"].(string)
	if email == "" {
		return Identity{}, fmt.Errorf("%w: token carries no email", domain.ErrUnauthorized)
	}
	return Identity{UID: decoded.UID, Email: email}, nil
}
