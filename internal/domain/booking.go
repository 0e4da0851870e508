package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID        int64
	Reference string // "BK" + 6 digits, assigned once at creation
	CheckIn   time.Time
	CheckOut  time.Time

	// TotalPrice is recomputed from room and services whenever booking
	// content changes; it is never taken from the caller.
	TotalPrice decimal.Decimal

	Guest Guest
	Room  Room

	// AdditionalGuests are plain name labels, no registration.
	AdditionalGuests []string

	Services []HotelService
	// Quantities maps service id to requested quantity. A service selected
	// without an entry here counts as quantity 1.
	Quantities map[int64]int
}

// TotalGuests counts the primary guest plus the additional name labels.
func (b Booking) TotalGuests() int {
	return 1 + len(b.AdditionalGuests)
}

// Quantity returns the requested quantity for a service, defaulting to 1.
func (b Booking) Quantity(serviceID int64) int {
	if q, ok := b.Quantities[serviceID]; ok {
		return q
	}
	return 1
}

// Nights is the number of whole 24h periods in the stay. A stay under 24
// hours counts as zero nights.
func (b Booking) Nights() int64 {
	return int64(b.CheckOut.Sub(b.CheckIn) / (24 * time.Hour))
}

// NewReference generates a booking reference. The reference space is large
// enough that collisions are left to the store's uniqueness constraint.
func NewReference() string {
	return fmt.Sprintf("BK%06d", 100000+rand.Intn(900000))
}
