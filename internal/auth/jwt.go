// Package auth issues and checks the HS256 access tokens guarding the
// console API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophattach/internal/common"
)

// Claims carries the standard claims plus the id of the reporter the token
// was issued to.
type Claims struct {
	jwt.RegisteredClaims
	ReporterID string `json:"rid"`
}

func GenerateToken(reporterID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		ReporterID: reporterID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ReporterIDFromToken validates tokenString and returns the reporter id it
// carries. Expired tokens yield common.ErrTokenExpired, anything else
// invalid yields common.ErrInvalidToken.
func ReporterIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.ReporterID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.ReporterID, nil
}
