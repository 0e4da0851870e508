package app

import "time"

// SetNow pins the service clock; tests only.
func (s *BookingService) SetNow(now func() time.Time) { s.now = now }
