// Package auth issues and verifies the signed tokens of a session and
// hashes the secrets the store keeps.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// jtiSize is the number of random bytes in a token id.
const jtiSize = 16

// Claims: стандартные утверждения плюс идентификатор пользователя.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// GenerateToken signs an HS256 token for userID issued at now and valid for
// validityDuration. The returned expiry is the one encoded in the token,
// truncated to whole seconds.
func GenerateToken(userID string, secretKey []byte, now time.Time, validityDuration time.Duration) (string, time.Time, error) {
	jti, err := common.MakeRandHexString(jtiSize)
	if err != nil {
		return "", time.Time{}, err
	}

	exp := jwt.NewNumericDate(now.Add(validityDuration))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: exp,
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, exp.Time, nil
}

// GetUserIDFromToken checks the signature and expiry of tokenString as of
// now. The token is valid while now < exp; there is no leeway. Every
// failure is reported as common.ErrUnauthorized.
func GetUserIDFromToken(tokenString string, secretKey []byte, now time.Time) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrUnauthorized
	}

	return claims.UserID, nil
}

// HashToken returns the hex SHA-256 of a raw token. Only this value is stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
