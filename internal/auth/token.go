// Package auth verifies access tokens minted by the marketplace's auth
// service. Issuance lives there; this side only parses and extracts the
// user id for the WebSocket handshake.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// UserFromToken returns the user id carried in an HS256 token.
func (v *TokenVerifier) UserFromToken(tokenString string) (domain.UserID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	uid, ok := (*claims)["user_id"].(string)
	if !ok || uid == "" {
		return "", ErrInvalidToken
	}

	user := domain.UserID(uid)
	if err := user.Validate(); err != nil {
		return "", err
	}
	return user, nil
}
