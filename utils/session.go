// utils/session.go
package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// SessionKey signs the cart-session cookie. Loaded from .env in main.
var SessionKey = []byte("change_me")

// SessionClaims ties a browser to its cart. There is no user identity
// here, only an anonymous cart id.
type SessionClaims struct {
	CartID string `json:"cart_id"`
	jwt.StandardClaims
}

// NewSessionToken mints a signed token carrying a fresh cart id.
func NewSessionToken() (string, string, error) {
	cartID := uuid.NewString()
	claims := &SessionClaims{
		CartID: cartID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(SessionKey)
	if err != nil {
		return "", "", err
	}
	return signed, cartID, nil
}

// ParseSessionToken validates a session token and returns its cart id.
func ParseSessionToken(tokenStr string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return SessionKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.NewValidationError("invalid session token", jwt.ValidationErrorClaimsInvalid)
	}
	return claims.CartID, nil
}
