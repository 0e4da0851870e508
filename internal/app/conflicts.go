package app

import (
	"context"
	"fmt"
	"time"

	"grandstay/internal/domain"
)

// ConflictDetector answers whether a room is taken for a date range.
type ConflictDetector struct {
	bookings domain.BookingStore
}

func NewConflictDetector(b domain.BookingStore) *ConflictDetector {
	return &ConflictDetector{bookings: b}
}

// HasConflict reports whether any booking on the room overlaps the half-open
// [checkIn, checkOut) range. Touching intervals (an existing check-out equal
// to the new check-in) do not conflict. excludeBookingID removes the booking
// being updated from the candidate set; pass 0 on the create path.
func (d *ConflictDetector) HasConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	existing, err := d.bookings.ListOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, fmt.Errorf("list overlapping bookings for room %d: %w", roomID, err)
	}
	for _, b := range existing {
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}
		return true, nil
	}
	return false, nil
}

// AvailableRooms filters all rooms down to those with no booking overlapping
// the requested range.
func (d *ConflictDetector) AvailableRooms(ctx context.Context, rooms domain.RoomStore, checkIn, checkOut time.Time) ([]domain.Room, error) {
	all, err := rooms.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	out := make([]domain.Room, 0, len(all))
	for _, r := range all {
		taken, err := d.HasConflict(ctx, r.ID, checkIn, checkOut, 0)
		if err != nil {
			return nil, err
		}
		if !taken {
			out = append(out, r)
		}
	}
	return out, nil
}
