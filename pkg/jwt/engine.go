package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
}

// Engine signs and verifies access tokens carrying a user id as subject.
type Engine struct {
	secret     []byte
	expiration time.Duration
}

func NewEngine(secret string, expiration time.Duration) *Engine {
	return &Engine{secret: []byte(secret), expiration: expiration}
}

func (e *Engine) Generate(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
		},
	})

	return token.SignedString(e.secret)
}

// Verify returns the user id a token was issued for.
func (e *Engine) Verify(tokenString string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return e.secret, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || c.Subject == "" {
		return "", ErrInvalidToken
	}

	return c.Subject, nil
}
