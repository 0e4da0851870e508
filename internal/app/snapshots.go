package app

import (
	"time"

	"github.com/shopspring/decimal"

	"grandstay/internal/domain"
)

// Request and snapshot types are the service-layer contract; the HTTP
// adapter decodes straight into them.

type ApplyBookingRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	City        string `json:"city"`

	RoomID               int64         `json:"roomId"`
	CheckIn              time.Time     `json:"checkInDateTime"`
	CheckOut             time.Time     `json:"checkOutDateTime"`
	AdditionalGuestNames []string      `json:"additionalGuestNames"`
	ServiceIDs           []int64       `json:"hotelServiceIds"`
	ServiceQuantities    map[int64]int `json:"serviceQuantities"`
}

type UpdateBookingRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	City        string `json:"city"`

	RoomID               int64         `json:"roomId"`
	CheckIn              time.Time     `json:"checkInDateTime"`
	CheckOut             time.Time     `json:"checkOutDateTime"`
	AdditionalGuestNames []string      `json:"additionalGuestNames"`
	ServiceIDs           []int64       `json:"hotelServiceIds"`
	ServiceQuantities    map[int64]int `json:"serviceQuantities"`
}

// CreateBookingRequest is the staff-entry variant: the guest already exists,
// so there is no profile upsert and no password.
type CreateBookingRequest struct {
	GuestID              int64         `json:"guestId"`
	RoomID               int64         `json:"roomId"`
	CheckIn              time.Time     `json:"checkInDateTime"`
	CheckOut             time.Time     `json:"checkOutDateTime"`
	AdditionalGuestNames []string      `json:"additionalGuestNames"`
	ServiceIDs           []int64       `json:"selectedServiceIds"`
	ServiceQuantities    map[int64]int `json:"serviceQuantities"`
}

type GuestSnapshot struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	City        string `json:"city"`
}

type RoomSnapshot struct {
	ID            int64             `json:"id"`
	Number        string            `json:"roomNumber"`
	Type          domain.RoomType   `json:"roomType"`
	Status        domain.RoomStatus `json:"roomStatus"`
	PricePerNight decimal.Decimal   `json:"pricePerNight"`
	MaxOccupancy  int               `json:"maxOccupancy"`
}

type ServiceSnapshot struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	PricingType domain.PricingType `json:"pricingType"`
	Price       decimal.Decimal    `json:"price"`
	Duration    *string            `json:"duration,omitempty"`
}

type BookingSnapshot struct {
	ID                   int64             `json:"bookingId"`
	Reference            string            `json:"bookingReference"`
	CheckIn              time.Time         `json:"checkInDateTime"`
	CheckOut             time.Time         `json:"checkOutDateTime"`
	TotalPrice           decimal.Decimal   `json:"totalPrice"`
	TotalGuests          int               `json:"totalGuests"`
	AdditionalGuestNames []string          `json:"additionalGuestNames"`
	Guest                GuestSnapshot     `json:"guest"`
	Room                 RoomSnapshot      `json:"room"`
	Services             []ServiceSnapshot `json:"selectedServices"`
	ServiceQuantities    map[int64]int     `json:"serviceQuantities"`
}

func snapshotRoom(r domain.Room) RoomSnapshot {
	return RoomSnapshot{
		ID:            r.ID,
		Number:        r.Number,
		Type:          r.Type,
		Status:        r.Status,
		PricePerNight: r.PricePerNight(),
		MaxOccupancy:  r.MaxOccupancy(),
	}
}

func snapshotBooking(b domain.Booking) BookingSnapshot {
	services := make([]ServiceSnapshot, 0, len(b.Services))
	for _, svc := range b.Services {
		services = append(services, ServiceSnapshot{
			ID:          svc.ID,
			Name:        svc.Name,
			PricingType: svc.PricingType,
			Price:       svc.Price,
			Duration:    svc.Duration,
		})
	}
	return BookingSnapshot{
		ID:                   b.ID,
		Reference:            b.Reference,
		CheckIn:              b.CheckIn,
		CheckOut:             b.CheckOut,
		TotalPrice:           b.TotalPrice,
		TotalGuests:          b.TotalGuests(),
		AdditionalGuestNames: b.AdditionalGuests,
		Guest: GuestSnapshot{
			ID:          b.Guest.ID,
			FullName:    b.Guest.FullName,
			Email:       b.Guest.Email,
			PhoneNumber: b.Guest.PhoneNumber,
			Country:     b.Guest.Country,
			Address:     b.Guest.Address,
			City:        b.Guest.City,
		},
		Room:              snapshotRoom(b.Room),
		Services:          services,
		ServiceQuantities: b.Quantities,
	}
}
