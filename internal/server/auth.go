// Package server verifies connecting users before their WebSocket upgrade is
// accepted. Identity is established exactly once per connection; frames are
// never re-authenticated.
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned when the upgrade request carries no access token.
	ErrNoToken = errors.New("unauthorized request")
	// ErrInvalidToken is returned when the access token fails verification.
	ErrInvalidToken = errors.New("invalid access token")
)

// Verifier authenticates the HTTP upgrade request of a connecting client and
// resolves it to an opaque user identifier. A failure is fatal to the
// connection.
type Verifier interface {
	Verify(r *http.Request) (string, error)
}

// accessClaims is the token payload issued by the account service. The user
// identity travels in the "id" claim.
type accessClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 access tokens taken from the accessToken cookie
// or, failing that, the Authorization bearer header.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with the given secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify extracts and validates the access token from the upgrade request and
// returns the user id it carries.
func (v *JWTVerifier) Verify(r *http.Request) (string, error) {
	tokenString := extractToken(r)
	if tokenString == "" {
		return "", ErrNoToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	return ""
}
