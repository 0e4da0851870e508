package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"grandstay/internal/domain"
)

// ReportService derives occupancy, revenue, and guest-activity summaries
// from bookings. Reports are read-only and computed in memory over the
// bookings touching the requested range.
type ReportService struct {
	store domain.Store
}

func NewReportService(store domain.Store) *ReportService {
	return &ReportService{store: store}
}

type OccupancyReport struct {
	From          time.Time `json:"fromDate"`
	To            time.Time `json:"toDate"`
	TotalRooms    int       `json:"totalRooms"`
	OccupiedRooms int       `json:"occupiedRooms"`
	OccupancyRate float64   `json:"occupancyRate"` // percentage
}

type RevenueReport struct {
	From            time.Time       `json:"fromDate"`
	To              time.Time       `json:"toDate"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	RoomRevenue     decimal.Decimal `json:"roomRevenue"`
	ServicesRevenue decimal.Decimal `json:"servicesRevenue"`
	TotalBookings   int             `json:"totalBookings"`
}

type GuestActivityReport struct {
	GuestName     string          `json:"guestName"`
	GuestEmail    string          `json:"guestEmail"`
	TotalBookings int             `json:"totalBookings"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	Bookings      []BookingLine   `json:"bookings"`
}

type BookingLine struct {
	Reference  string          `json:"bookingReference"`
	CheckIn    time.Time       `json:"checkInDate"`
	CheckOut   time.Time       `json:"checkOutDate"`
	RoomNumber string          `json:"roomNumber"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

// bookingsTouching returns bookings whose stay overlaps [from, to).
func (s *ReportService) bookingsTouching(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	all, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := all[:0:0]
	for _, b := range all {
		if b.CheckIn.Before(to) && b.CheckOut.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *ReportService) Occupancy(ctx context.Context, from, to time.Time) (OccupancyReport, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return OccupancyReport{}, fmt.Errorf("list rooms: %w", err)
	}
	bookings, err := s.bookingsTouching(ctx, from, to)
	if err != nil {
		return OccupancyReport{}, err
	}

	occupied := make(map[int64]bool)
	for _, b := range bookings {
		occupied[b.Room.ID] = true
	}

	rate := 0.0
	if len(rooms) > 0 {
		rate = float64(len(occupied)) / float64(len(rooms)) * 100
		rate = float64(int(rate*100+0.5)) / 100 // two decimal places
	}
	return OccupancyReport{
		From:          from,
		To:            to,
		TotalRooms:    len(rooms),
		OccupiedRooms: len(occupied),
		OccupancyRate: rate,
	}, nil
}

// Revenue splits booking totals into the room part (nightly price times
// nights) and everything else (services).
func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) (RevenueReport, error) {
	bookings, err := s.bookingsTouching(ctx, from, to)
	if err != nil {
		return RevenueReport{}, err
	}

	room := decimal.Zero
	total := decimal.Zero
	for _, b := range bookings {
		room = room.Add(b.Room.PricePerNight().Mul(decimal.NewFromInt(b.Nights())))
		total = total.Add(b.TotalPrice)
	}
	return RevenueReport{
		From:            from,
		To:              to,
		TotalRevenue:    total,
		RoomRevenue:     room,
		ServicesRevenue: total.Sub(room),
		TotalBookings:   len(bookings),
	}, nil
}

func (s *ReportService) GuestActivityByEmail(ctx context.Context, email string) (GuestActivityReport, error) {
	guest, err := s.store.GetGuestByEmail(ctx, email)
	if err != nil {
		return GuestActivityReport{}, fmt.Errorf("guest %s: %w", email, err)
	}
	bookings, err := s.store.ListBookingsByGuestEmail(ctx, guest.Email)
	if err != nil {
		return GuestActivityReport{}, fmt.Errorf("bookings for %s: %w", email, err)
	}

	spent := decimal.Zero
	lines := make([]BookingLine, 0, len(bookings))
	for _, b := range bookings {
		spent = spent.Add(b.TotalPrice)
		lines = append(lines, BookingLine{
			Reference:  b.Reference,
			CheckIn:    b.CheckIn,
			CheckOut:   b.CheckOut,
			RoomNumber: b.Room.Number,
			TotalCost:  b.TotalPrice,
		})
	}
	return GuestActivityReport{
		GuestName:     guest.FullName,
		GuestEmail:    guest.Email,
		TotalBookings: len(bookings),
		TotalSpent:    spent,
		Bookings:      lines,
	}, nil
}
