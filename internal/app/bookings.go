package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"grandstay/internal/domain"
)

// BookingService orchestrates the booking lifecycle: validation, guest
// upsert, conflict checks, pricing, persistence, and the trailing room
// status sync. Each create/update runs inside one store transaction; only
// the status sync after a committed write is best-effort.
type BookingService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
	sync     *RoomSynchronizer

	// now is swapped out in tests.
	now func() time.Time
}

func NewBookingService(store domain.Store, cache domain.Cache, cacheTTL time.Duration) *BookingService {
	return &BookingService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		sync:     NewRoomSynchronizer(store),
		now:      time.Now,
	}
}

func validateStay(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return fmt.Errorf("check-in and check-out are required: %w", domain.ErrValidation)
	}
	if !checkIn.Before(checkOut) {
		return fmt.Errorf("check-in must be before check-out: %w", domain.ErrValidation)
	}
	return nil
}

// loadRoomChecked fetches the room and enforces the occupancy limit.
func loadRoomChecked(ctx context.Context, tx domain.Store, roomID int64, additionalGuests []string) (domain.Room, error) {
	room, err := tx.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("room %d: %w", roomID, err)
	}
	if total := 1 + len(additionalGuests); total > room.MaxOccupancy() {
		return domain.Room{}, fmt.Errorf("room %s holds at most %d guests, requested %d: %w",
			room.Number, room.MaxOccupancy(), total, domain.ErrCapacity)
	}
	return room, nil
}

// resolveServices looks up every requested service; a missing id is a
// NotFound, not a silent drop.
func resolveServices(ctx context.Context, tx domain.Store, ids []int64) ([]domain.HotelService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	services, err := tx.GetServices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve services: %w", err)
	}
	if len(services) != len(ids) {
		found := make(map[int64]bool, len(services))
		for _, s := range services {
			found[s.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
			}
		}
	}
	return services, nil
}

// ApplyBooking is the public self-service path: no prior guest session, the
// guest record is upserted by email as part of the booking.
func (s *BookingService) ApplyBooking(ctx context.Context, req ApplyBookingRequest) (BookingSnapshot, error) {
	if err := validateStay(req.CheckIn, req.CheckOut); err != nil {
		return BookingSnapshot{}, err
	}

	var saved domain.Booking
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		room, err := loadRoomChecked(ctx, tx, req.RoomID, req.AdditionalGuestNames)
		if err != nil {
			return err
		}

		taken, err := NewConflictDetector(tx).HasConflict(ctx, room.ID, req.CheckIn, req.CheckOut, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("room %s from %s to %s: %w",
				room.Number, req.CheckIn.Format(time.RFC3339), req.CheckOut.Format(time.RFC3339), domain.ErrConflict)
		}

		guest, err := s.upsertGuest(ctx, tx, req)
		if err != nil {
			return err
		}

		services, err := resolveServices(ctx, tx, req.ServiceIDs)
		if err != nil {
			return err
		}

		saved, err = tx.SaveBooking(ctx, domain.Booking{
			Reference:        domain.NewReference(),
			CheckIn:          req.CheckIn,
			CheckOut:         req.CheckOut,
			TotalPrice:       ComputeTotal(room, req.CheckIn, req.CheckOut, services, req.ServiceQuantities),
			Guest:            guest,
			Room:             room,
			AdditionalGuests: req.AdditionalGuestNames,
			Services:         services,
			Quantities:       req.ServiceQuantities,
		})
		if err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return BookingSnapshot{}, err
	}

	s.syncAfterWrite(ctx, saved)
	log.Info().Str("reference", saved.Reference).Int64("room_id", saved.Room.ID).
		Str("guest_email", saved.Guest.Email).Msg("booking applied")
	return snapshotBooking(saved), nil
}

// upsertGuest finds a guest by email and overwrites the profile, or creates
// a new record. Applying a booking under an existing email deliberately
// replaces that guest's profile and password.
func (s *BookingService) upsertGuest(ctx context.Context, tx domain.Store, req ApplyBookingRequest) (domain.Guest, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("hash password: %w", err)
	}

	guest, err := tx.GetGuestByEmail(ctx, req.Email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		guest = domain.Guest{Email: req.Email}
	default:
		return domain.Guest{}, fmt.Errorf("look up guest %s: %w", req.Email, err)
	}

	guest.FullName = req.FullName
	guest.PasswordHash = string(hash)
	guest.PhoneNumber = req.PhoneNumber
	guest.Country = req.Country
	guest.Address = req.Address
	guest.City = req.City

	guest, err = tx.SaveGuest(ctx, guest)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("save guest %s: %w", req.Email, err)
	}
	return guest, nil
}

// UpdateBooking is the guest-authorized path: the booking is addressed by
// reference and must belong to the authenticated guest.
func (s *BookingService) UpdateBooking(ctx context.Context, reference string, req UpdateBookingRequest, guestID int64) (BookingSnapshot, error) {
	if err := validateStay(req.CheckIn, req.CheckOut); err != nil {
		return BookingSnapshot{}, err
	}

	var updated domain.Booking
	var oldRoomID int64
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		existing, err := tx.GetBookingByReference(ctx, reference)
		if err != nil {
			return fmt.Errorf("booking %s: %w", reference, err)
		}
		if existing.Guest.ID != guestID {
			return fmt.Errorf("booking %s belongs to another guest: %w", reference, domain.ErrForbidden)
		}

		room, err := loadRoomChecked(ctx, tx, req.RoomID, req.AdditionalGuestNames)
		if err != nil {
			return err
		}

		taken, err := NewConflictDetector(tx).HasConflict(ctx, room.ID, req.CheckIn, req.CheckOut, existing.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("room %s from %s to %s: %w",
				room.Number, req.CheckIn.Format(time.RFC3339), req.CheckOut.Format(time.RFC3339), domain.ErrConflict)
		}

		// Profile overwrite, same shape as the apply path but no password.
		guest := existing.Guest
		guest.FullName = req.FullName
		guest.Email = req.Email
		guest.PhoneNumber = req.PhoneNumber
		guest.Country = req.Country
		guest.Address = req.Address
		guest.City = req.City
		if guest, err = tx.SaveGuest(ctx, guest); err != nil {
			return fmt.Errorf("save guest %d: %w", guest.ID, err)
		}

		services, err := resolveServices(ctx, tx, req.ServiceIDs)
		if err != nil {
			return err
		}

		oldRoomID = existing.Room.ID
		existing.CheckIn = req.CheckIn
		existing.CheckOut = req.CheckOut
		existing.Room = room
		existing.Guest = guest
		existing.AdditionalGuests = req.AdditionalGuestNames
		existing.Services = services
		existing.Quantities = req.ServiceQuantities
		existing.TotalPrice = ComputeTotal(room, req.CheckIn, req.CheckOut, services, req.ServiceQuantities)

		if updated, err = tx.SaveBooking(ctx, existing); err != nil {
			return fmt.Errorf("save booking %s: %w", reference, err)
		}
		return nil
	})
	if err != nil {
		return BookingSnapshot{}, err
	}

	now := s.now()
	if oldRoomID != updated.Room.ID {
		if err := s.sync.ReleaseIfIdle(ctx, oldRoomID, updated.ID, now); err != nil {
			log.Error().Err(err).Int64("room_id", oldRoomID).Str("reference", updated.Reference).
				Msg("old room status sync failed after booking update")
		}
	}
	s.syncAfterWrite(ctx, updated)
	log.Info().Str("reference", updated.Reference).Int64("room_id", updated.Room.ID).Msg("booking updated")
	return snapshotBooking(updated), nil
}

// CreateBooking is the staff-entry variant: same validation pipeline as the
// apply path, but the guest must already exist and no profile is touched.
// The total price is computed here, never taken from the request.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (BookingSnapshot, error) {
	if err := validateStay(req.CheckIn, req.CheckOut); err != nil {
		return BookingSnapshot{}, err
	}

	var saved domain.Booking
	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		room, err := loadRoomChecked(ctx, tx, req.RoomID, req.AdditionalGuestNames)
		if err != nil {
			return err
		}

		taken, err := NewConflictDetector(tx).HasConflict(ctx, room.ID, req.CheckIn, req.CheckOut, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("room %s: %w", room.Number, domain.ErrConflict)
		}

		guest, err := tx.GetGuest(ctx, req.GuestID)
		if err != nil {
			return fmt.Errorf("guest %d: %w", req.GuestID, err)
		}

		services, err := resolveServices(ctx, tx, req.ServiceIDs)
		if err != nil {
			return err
		}

		saved, err = tx.SaveBooking(ctx, domain.Booking{
			Reference:        domain.NewReference(),
			CheckIn:          req.CheckIn,
			CheckOut:         req.CheckOut,
			TotalPrice:       ComputeTotal(room, req.CheckIn, req.CheckOut, services, req.ServiceQuantities),
			Guest:            guest,
			Room:             room,
			AdditionalGuests: req.AdditionalGuestNames,
			Services:         services,
			Quantities:       req.ServiceQuantities,
		})
		if err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return BookingSnapshot{}, err
	}

	s.syncAfterWrite(ctx, saved)
	log.Info().Str("reference", saved.Reference).Msg("booking created")
	return snapshotBooking(saved), nil
}

// syncAfterWrite is the best-effort room status update following a committed
// booking write. It can fail independently of the booking; the failure is
// surfaced in the log, never to the caller, and the hourly sweep converges
// the status later.
func (s *BookingService) syncAfterWrite(ctx context.Context, b domain.Booking) {
	if err := s.sync.SyncForBooking(ctx, b, s.now()); err != nil {
		log.Error().Err(err).Str("reference", b.Reference).Int64("room_id", b.Room.ID).
			Msg("room status sync failed after booking write")
	}
	_ = s.cache.Del(ctx, bookingKey(b.Reference))
}

func bookingKey(reference string) string { return "booking:" + reference }

func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (BookingSnapshot, error) {
	key := bookingKey(reference)
	var snap BookingSnapshot
	if ok, _ := s.cache.Get(ctx, key, &snap); ok {
		return snap, nil
	}
	b, err := s.store.GetBookingByReference(ctx, reference)
	if err != nil {
		return BookingSnapshot{}, fmt.Errorf("booking %s: %w", reference, err)
	}
	snap = snapshotBooking(b)
	_ = s.cache.Set(ctx, key, snap, int(s.cacheTTL.Seconds()))
	return snap, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]BookingSnapshot, error) {
	bs, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return snapshotAll(bs), nil
}

func (s *BookingService) ListBookingsByGuestEmail(ctx context.Context, email string) ([]BookingSnapshot, error) {
	bs, err := s.store.ListBookingsByGuestEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", email, err)
	}
	return snapshotAll(bs), nil
}

func snapshotAll(bs []domain.Booking) []BookingSnapshot {
	out := make([]BookingSnapshot, 0, len(bs))
	for _, b := range bs {
		out = append(out, snapshotBooking(b))
	}
	return out
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("booking %d: %w", id, err)
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	_ = s.cache.Del(ctx, bookingKey(b.Reference))
	log.Info().Str("reference", b.Reference).Msg("booking deleted")
	return nil
}

// ListAvailableRooms returns rooms free of conflicting bookings over the
// requested range.
func (s *BookingService) ListAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]RoomSnapshot, error) {
	if err := validateStay(checkIn, checkOut); err != nil {
		return nil, err
	}
	rooms, err := NewConflictDetector(s.store).AvailableRooms(ctx, s.store, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	out := make([]RoomSnapshot, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, snapshotRoom(r))
	}
	return out, nil
}

// ReconcileRoomStatuses runs one sweep of the room status synchronizer; the
// periodic job calls this on its tick.
func (s *BookingService) ReconcileRoomStatuses(ctx context.Context, now time.Time) (int, error) {
	return s.sync.Reconcile(ctx, now)
}
