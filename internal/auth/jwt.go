package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HS256 verifies locally signed tokens. It stands in for Firebase in local
// runs and tests.
type HS256 struct {
	secret []byte
}

func NewHS256(secret string) (*HS256, error) {
	if secret == "" {
		return nil, errors.New("hs256 secret is empty")
	}
	return &HS256{secret: []byte(secret)}, nil
}

func (h *HS256) Issue(uid, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

func (h *HS256) Verify(_ context.Context, token string) (Identity, error) {
	var claims Claims
	t, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !t.Valid || claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return Identity{UID: claims.Subject, Email: claims.Email}, nil
}
