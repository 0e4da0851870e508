package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"grandstay/internal/domain"
)

// RoomSynchronizer keeps room status in line with actual booking timing.
// Rooms in MAINTENANCE are left alone; the sweep only ever moves a room
// between AVAILABLE and OCCUPIED.
type RoomSynchronizer struct {
	store domain.Store
}

func NewRoomSynchronizer(store domain.Store) *RoomSynchronizer {
	return &RoomSynchronizer{store: store}
}

func isActive(b domain.Booking, now time.Time) bool {
	return !now.Before(b.CheckIn) && now.Before(b.CheckOut)
}

// SyncForBooking applies the status a single booking implies for its room at
// the given time. A future or ended booking releases the room unless another
// active booking still claims it.
func (s *RoomSynchronizer) SyncForBooking(ctx context.Context, b domain.Booking, now time.Time) error {
	if isActive(b, now) {
		_, err := s.setStatus(ctx, b.Room.ID, domain.RoomOccupied)
		return err
	}
	return s.ReleaseIfIdle(ctx, b.Room.ID, b.ID, now)
}

// ReleaseIfIdle marks a room AVAILABLE unless some other booking (excluding
// excludeBookingID) is active on it right now.
func (s *RoomSynchronizer) ReleaseIfIdle(ctx context.Context, roomID, excludeBookingID int64, now time.Time) error {
	overlapping, err := s.store.ListOverlapping(ctx, roomID, now, now.Add(time.Nanosecond))
	if err != nil {
		return fmt.Errorf("check active bookings for room %d: %w", roomID, err)
	}
	for _, other := range overlapping {
		if other.ID != excludeBookingID && isActive(other, now) {
			// Someone else holds the room; never downgrade under them.
			_, err := s.setStatus(ctx, roomID, domain.RoomOccupied)
			return err
		}
	}
	_, err = s.setStatus(ctx, roomID, domain.RoomAvailable)
	return err
}

// setStatus persists the status if it differs from the room's current one.
func (s *RoomSynchronizer) setStatus(ctx context.Context, roomID int64, status domain.RoomStatus) (bool, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("load room %d: %w", roomID, err)
	}
	if room.Status == status || room.Status == domain.RoomMaintenance {
		return false, nil
	}
	room.Status = status
	if _, err := s.store.SaveRoom(ctx, room); err != nil {
		return false, fmt.Errorf("save room %d status %s: %w", roomID, status, err)
	}
	log.Info().Int64("room_id", roomID).Str("status", string(status)).Msg("room status updated")
	return true, nil
}

// Reconcile is the batch sweep: rooms with an active booking become OCCUPIED,
// rooms whose bookings have all completed become AVAILABLE. Re-running with
// the same now is a no-op. Per-item failures are logged and skipped so one
// bad row can't abort the sweep. Returns the number of status transitions.
func (s *RoomSynchronizer) Reconcile(ctx context.Context, now time.Time) (int, error) {
	changed := 0

	active, err := s.store.ListActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list active bookings: %w", err)
	}
	activeRooms := make(map[int64]bool, len(active))
	for _, b := range active {
		activeRooms[b.Room.ID] = true
		did, err := s.setStatus(ctx, b.Room.ID, domain.RoomOccupied)
		if err != nil {
			log.Error().Err(err).Int64("room_id", b.Room.ID).Str("reference", b.Reference).
				Msg("reconcile: occupy failed")
			continue
		}
		if did {
			changed++
		}
	}

	completed, err := s.store.ListCompleted(ctx, now)
	if err != nil {
		return changed, fmt.Errorf("list completed bookings: %w", err)
	}
	for _, b := range completed {
		// A different active booking may still hold the room.
		if activeRooms[b.Room.ID] {
			continue
		}
		did, err := s.setStatus(ctx, b.Room.ID, domain.RoomAvailable)
		if err != nil {
			log.Error().Err(err).Int64("room_id", b.Room.ID).Str("reference", b.Reference).
				Msg("reconcile: release failed")
			continue
		}
		if did {
			changed++
		}
	}
	return changed, nil
}
