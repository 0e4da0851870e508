package domain

import "github.com/shopspring/decimal"

type RoomType string

const (
	RoomSingle RoomType = "SINGLE"
	RoomDouble RoomType = "DOUBLE"
	RoomDeluxe RoomType = "DELUXE"
	RoomSuite  RoomType = "SUITE"
)

type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomOccupied  RoomStatus = "OCCUPIED"
	// RoomMaintenance is set by room management, never by the booking core.
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

type Room struct {
	ID     int64
	Number string // unique, e.g. "204"
	Type   RoomType
	Status RoomStatus
}

// PricePerNight is a pure function of the room type. It is computed, never
// stored, so a type change can't leave a stale price behind.
func (r Room) PricePerNight() decimal.Decimal {
	switch r.Type {
	case RoomDouble:
		return decimal.NewFromInt(150)
	case RoomDeluxe:
		return decimal.NewFromInt(250)
	case RoomSuite:
		return decimal.NewFromInt(400)
	default: // SINGLE and anything unknown
		return decimal.NewFromInt(100)
	}
}

// MaxOccupancy is derived from the room type the same way the price is.
func (r Room) MaxOccupancy() int {
	switch r.Type {
	case RoomDouble:
		return 2
	case RoomDeluxe:
		return 3
	case RoomSuite:
		return 4
	default:
		return 1
	}
}
