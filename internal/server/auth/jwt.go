// Package auth issues and verifies the signed bearer tokens used for
// stateless sessions. A token carries the subject (the user's email) and an
// absolute expiry; there is no server-side revocation.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feedbackhub/feedbackhub/internal/common"
)

// Claims is the claim set embedded in every session token. The subject is
// the authenticated user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken mints an HS256-signed token for subject with the given
// validity duration.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies the token's signature and expiry and returns
// the embedded subject. Any failure yields a sentinel error: expired tokens
// return common.ErrTokenExpired, everything else common.ErrInvalidToken.
// A token is valid or it is not; there are no partial-trust states.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
