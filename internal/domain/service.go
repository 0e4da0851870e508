package domain

import "github.com/shopspring/decimal"

// PricingType determines how a service's unit price combines with the
// requested quantity.
type PricingType string

const (
	PerOrder PricingType = "PER_ORDER"
	PerHour  PricingType = "PER_HOUR"
	PerNight PricingType = "PER_NIGHT"
)

type HotelService struct {
	ID          int64
	Name        string // unique
	PricingType PricingType
	Price       decimal.Decimal
	Duration    *string // optional label, e.g. "1 hour"
}
