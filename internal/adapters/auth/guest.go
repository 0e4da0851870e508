package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

type ctxKey int

const guestIDKey ctxKey = iota

// GuestID returns the authenticated guest id placed in the context by
// Middleware, or 0 when the request carried no valid token.
func GuestID(ctx context.Context) int64 {
	id, _ := ctx.Value(guestIDKey).(int64)
	return id
}

// ParseGuestToken validates an HS256 guest token and returns the guest id
// from its claims.
func ParseGuestToken(secret, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	raw, ok := claims["guest_id"].(float64)
	if !ok || raw <= 0 {
		return 0, fmt.Errorf("token has no guest_id claim")
	}
	return int64(raw), nil
}

// Middleware extracts the guest identity from the Authorization header and
// rejects requests without one. Token issuance is the auth service's job;
// this side only verifies.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			guestID, err := ParseGuestToken(secret, raw)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), guestIDKey, guestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
