package utils

import (
	"errors"
	"time"

	"agendia/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "agendia-dev"
	}
	return []byte(secret)
}

// GenerateAdminToken creates a signed JWT for the agenda owner. The token
// expires after the specified duration.
func GenerateAdminToken(duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateAdminToken parses a token string and verifies it carries the admin role.
func ValidateAdminToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("token does not carry the admin role")
	}
	return nil
}
