// Package token issues and verifies the HS256 bearer tokens handed out at
// registration and login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/geotrail/location-log/internal/core/domain"
)

// TTL is how long an issued token stays valid.
const TTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = domain.ErrInvalidToken

// Claims is the payload signed into every token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}

// Codec signs and verifies tokens with a process-wide secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for user that expires TTL from now.
func (c *Codec) Issue(user *domain.User) (string, error) {
	now := c.now()
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
