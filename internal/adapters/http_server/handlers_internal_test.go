package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"grandstay/internal/domain"
)

func TestWriteDomainErr(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantLabel  string
	}{
		{fmt.Errorf("check-in: %w", domain.ErrValidation), http.StatusBadRequest, "validation"},
		{fmt.Errorf("booking BK1: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("room 101: %w", domain.ErrCapacity), http.StatusUnprocessableEntity, "capacity"},
		{fmt.Errorf("room 101: %w", domain.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("booking BK1: %w", domain.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("driver: bad conn"), http.StatusInternalServerError, "error"},
	}
	for _, tc := range cases {
		t.Run(tc.wantLabel, func(t *testing.T) {
			rr := httptest.NewRecorder()
			label := writeDomainErr(rr, tc.err)
			if label != tc.wantLabel {
				t.Fatalf("label = %s, want %s", label, tc.wantLabel)
			}
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Fatalf("content type = %s", ct)
			}
			var p problem
			if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
				t.Fatalf("decode problem: %v", err)
			}
			if p.Status != tc.wantStatus {
				t.Fatalf("problem status = %d, want %d", p.Status, tc.wantStatus)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(1, 2)(next)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/bookings/apply", nil))
		codes = append(codes, rr.Code)
	}
	// Burst of 2 allowed, third call in the same instant throttled.
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst rejected: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third call = %d, want 429", codes[2])
	}
}

func TestRemoteIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/healthz", nil)
	r.RemoteAddr = "192.0.2.10:5111"
	if got := remoteIP(r); got != "192.0.2.10" {
		t.Fatalf("remoteIP = %s", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := remoteIP(r); got != "198.51.100.7" {
		t.Fatalf("remoteIP = %s", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	if got := remoteIP(r); got != "203.0.113.9" {
		t.Fatalf("remoteIP = %s", got)
	}
}
