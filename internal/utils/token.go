// internal/utils/token.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionClaims binds a token to one profile storage key. The storage key,
// not the profile id, is the stable identity: it survives the guest to
// registered transition.
type SessionClaims struct {
	StorageKey string `json:"storage_key"`
	jwt.RegisteredClaims
}

var sessionSecret = []byte("your-secret-key-change-in-production")

func SetSessionSecret(secret string) {
	sessionSecret = []byte(secret)
}

func GenerateSessionToken(storageKey string, ttlHours int) (string, error) {
	claims := SessionClaims{
		StorageKey: storageKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "niceai-studio",
			Subject:   storageKey,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.StorageKey != "" {
		return claims, nil
	}

	return nil, errors.New("invalid session token")
}
