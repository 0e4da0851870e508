package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"grandstay/internal/adapters/auth"
)

const secret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestParseGuestToken(t *testing.T) {
	valid := signToken(t, secret, jwt.MapClaims{
		"guest_id": 42,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	id, err := auth.ParseGuestToken(secret, valid)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if id != 42 {
		t.Fatalf("guest id = %d, want 42", id)
	}

	if _, err := auth.ParseGuestToken("other-secret", valid); err == nil {
		t.Fatalf("token verified under wrong secret")
	}

	expired := signToken(t, secret, jwt.MapClaims{
		"guest_id": 42,
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := auth.ParseGuestToken(secret, expired); err == nil {
		t.Fatalf("expired token accepted")
	}

	noClaim := signToken(t, secret, jwt.MapClaims{"sub": "guest"})
	if _, err := auth.ParseGuestToken(secret, noClaim); err == nil {
		t.Fatalf("token without guest_id accepted")
	}
}

func TestMiddleware(t *testing.T) {
	var seenID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = auth.GuestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := auth.Middleware(secret)(next)

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("PUT", "/v1/bookings/BK123456", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/v1/bookings/BK123456", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("valid token reaches handler", func(t *testing.T) {
		tok := signToken(t, secret, jwt.MapClaims{
			"guest_id": 7,
			"exp":      time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("PUT", "/v1/bookings/BK123456", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		if seenID != 7 {
			t.Fatalf("guest id in context = %d, want 7", seenID)
		}
	})
}
