package domain

import (
	"context"
	"time"
)

type RoomStore interface {
	GetRoom(ctx context.Context, id int64) (Room, error)
	GetRoomByNumber(ctx context.Context, number string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	SaveRoom(ctx context.Context, r Room) (Room, error)
	RoomExists(ctx context.Context, id int64) (bool, error)
}

type GuestStore interface {
	GetGuest(ctx context.Context, id int64) (Guest, error)
	GetGuestByEmail(ctx context.Context, email string) (Guest, error)
	SaveGuest(ctx context.Context, g Guest) (Guest, error)
}

type ServiceStore interface {
	// GetServices resolves ids to services; unknown ids are simply absent
	// from the result.
	GetServices(ctx context.Context, ids []int64) ([]HotelService, error)
}

type BookingStore interface {
	GetBooking(ctx context.Context, id int64) (Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	ListBookingsByGuestEmail(ctx context.Context, email string) ([]Booking, error)
	SaveBooking(ctx context.Context, b Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error

	// ListOverlapping returns bookings on the room whose [check-in, check-out)
	// interval overlaps the given half-open range.
	ListOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]Booking, error)
	// ListActive returns bookings with checkIn <= now < checkOut.
	ListActive(ctx context.Context, now time.Time) ([]Booking, error)
	// ListCompleted returns bookings with checkOut <= now.
	ListCompleted(ctx context.Context, now time.Time) ([]Booking, error)
}

// Store is the durable-store surface the booking core works against.
type Store interface {
	RoomStore
	GuestStore
	ServiceStore
	BookingStore

	// WithinTx runs fn against a store bound to a single transaction. A
	// non-nil error from fn rolls the transaction back; nil commits it.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
