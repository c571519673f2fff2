// Package auth signs and verifies the short-lived tokens embedded in
// download links.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// LinkClaims binds a token to exactly one storage key.
type LinkClaims struct {
	jwt.RegisteredClaims
	Key string `json:"key"`
}

// GenerateLinkToken returns an HS256 token granting read access to key for ttl.
func GenerateLinkToken(key string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, LinkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Key: key,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign link token: %w", err)
	}
	return tokenString, nil
}

// KeyFromLinkToken validates tokenString and returns the storage key it was
// issued for. Expired tokens yield common.ErrTokenExpired, anything else
// unacceptable yields common.ErrInvalidToken.
func KeyFromLinkToken(tokenString string, secretKey []byte) (string, error) {
	claims := &LinkClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", common.ErrTokenExpired
	}
	if err != nil || !token.Valid || claims.Key == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Key, nil
}
