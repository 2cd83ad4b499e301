package user

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/nirman-app/nirman/config"
)

// JwtClaims the dashboard session token claims
type JwtClaims struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JwtToken a signed token with its expiration
type JwtToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// MakeToken sign a session token for one account
func MakeToken(userID string, name string, email string, timeout time.Duration) (JwtToken, error) {
	if timeout <= 0 {
		timeout = time.Hour
	}

	now := time.Now()
	expiresAt := now.Add(timeout)
	claims := &JwtClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "nirman",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.Conf.JWTSecret))
	if err != nil {
		return JwtToken{}, err
	}

	return JwtToken{Token: tokenString, ExpiresAt: expiresAt.Unix()}, nil
}

// ValidateToken parse and validate a session token
func ValidateToken(tokenString string) (*JwtClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Conf.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JwtClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
