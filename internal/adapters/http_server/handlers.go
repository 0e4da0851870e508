package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"grandstay/internal/adapters/auth"
	"grandstay/internal/adapters/observability"
	"grandstay/internal/app"
	"grandstay/internal/domain"
)

type Handlers struct {
	Bookings *app.BookingService
	Reports  *app.ReportService

	JWTSecret  string
	ApplyRPS   int
	ApplyBurst int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.With(RateLimit(h.ApplyRPS, h.ApplyBurst)).Post("/v1/bookings/apply", h.applyBooking)
	s.mux.With(auth.Middleware(h.JWTSecret)).Put("/v1/bookings/{reference}", h.updateBooking)

	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings", h.listBookings)
	s.mux.Get("/v1/bookings/by-guest", h.listBookingsByGuest)
	s.mux.Get("/v1/bookings/{reference}", h.getBooking)
	s.mux.Delete("/v1/bookings/{id}", h.deleteBooking)

	s.mux.Get("/v1/rooms/available", h.availableRooms)

	s.mux.Get("/v1/reports/occupancy", h.occupancyReport)
	s.mux.Get("/v1/reports/revenue", h.revenueReport)
	s.mux.Get("/v1/reports/guest-activity", h.guestActivity)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainErr maps service errors onto problem+json statuses and reports
// the outcome label used by the booking metrics.
func writeDomainErr(w http.ResponseWriter, err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return "not_found"
	case errors.Is(err, domain.ErrCapacity):
		writeProblem(w, http.StatusUnprocessableEntity, "Capacity Exceeded", err.Error())
		return "capacity"
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Booking Conflict", err.Error())
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
		return "forbidden"
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) applyBooking(w http.ResponseWriter, r *http.Request) {
	var req app.ApplyBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		observability.ObserveBooking("apply", "validation")
		return
	}
	snap, err := h.Bookings.ApplyBooking(r.Context(), req)
	if err != nil {
		observability.ObserveBooking("apply", writeDomainErr(w, err))
		return
	}
	observability.ObserveBooking("apply", "ok")
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	var req app.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		observability.ObserveBooking("update", "validation")
		return
	}
	snap, err := h.Bookings.UpdateBooking(r.Context(), reference, req, auth.GuestID(r.Context()))
	if err != nil {
		observability.ObserveBooking("update", writeDomainErr(w, err))
		return
	}
	observability.ObserveBooking("update", "ok")
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		observability.ObserveBooking("create", "validation")
		return
	}
	snap, err := h.Bookings.CreateBooking(r.Context(), req)
	if err != nil {
		observability.ObserveBooking("create", writeDomainErr(w, err))
		return
	}
	observability.ObserveBooking("create", "ok")
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.ListBookings(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) listBookingsByGuest(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Email", "email query parameter is required")
		return
	}
	out, err := h.Bookings.ListBookingsByGuestEmail(r.Context(), email)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Bookings.GetBookingByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	etag, body := calcETagAndBody(snap)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getBooking body")
	}
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if err := h.Bookings.DeleteBooking(r.Context(), id); err != nil {
		observability.ObserveBooking("delete", writeDomainErr(w, err))
		return
	}
	observability.ObserveBooking("delete", "ok")
	w.WriteHeader(http.StatusNoContent)
}

// parseStamp accepts RFC3339 or a bare date.
func parseStamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func stayWindow(r *http.Request, fromKey, toKey string) (time.Time, time.Time, bool) {
	from, errF := parseStamp(r.URL.Query().Get(fromKey))
	to, errT := parseStamp(r.URL.Query().Get(toKey))
	return from, to, errF == nil && errT == nil
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	checkIn, checkOut, ok := stayWindow(r, "check_in", "check_out")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Window", "check_in and check_out must be RFC3339 or YYYY-MM-DD")
		return
	}
	out, err := h.Bookings.ListAvailableRooms(r.Context(), checkIn, checkOut)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) occupancyReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := stayWindow(r, "from", "to")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339 or YYYY-MM-DD")
		return
	}
	out, err := h.Reports.Occupancy(r.Context(), from, to)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) revenueReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := stayWindow(r, "from", "to")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339 or YYYY-MM-DD")
		return
	}
	out, err := h.Reports.Revenue(r.Context(), from, to)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) guestActivity(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Email", "email query parameter is required")
		return
	}
	out, err := h.Reports.GuestActivityByEmail(r.Context(), email)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
