package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"quill/globals"
)

// JWT claims
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 token signed with secret.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("no signing secret configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// OptionalAuth records the caller's email in the request context when a valid
// bearer token is present. Requests without one proceed untouched; no route
// is gated on it.
func OptionalAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if tokenString, ok := strings.CutPrefix(header, "Bearer "); ok && tokenString != "" {
				if claims, err := ParseToken(secret, tokenString); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), globals.EmailKey, claims.Email))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmailFromContext returns the authenticated email, or "" for anonymous calls.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(globals.EmailKey).(string)
	return email
}
