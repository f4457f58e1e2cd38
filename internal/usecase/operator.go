package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorAuth verifies bearer tokens for the order-inspection endpoint.
// Tokens are HS256-signed with a shared operator secret; they are issued out
// of band (ops tooling), not by this service's HTTP surface.
type OperatorAuth struct {
	Secret string
}

func (a *OperatorAuth) Issue(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(a.Secret))
}

func (a *OperatorAuth) Verify(token string) error {
	if a.Secret == "" {
		return fmt.Errorf("operator secret not configured")
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
