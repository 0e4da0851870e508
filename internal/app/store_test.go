package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"grandstay/internal/domain"
)

// ---- fakes ----

// memStore is an in-memory domain.Store. WithinTx runs the callback against
// the same state; rollback is not simulated, which is fine because every
// failure path under test errors out before its first write.
type memStore struct {
	rooms    map[int64]domain.Room
	guests   map[int64]domain.Guest
	services map[int64]domain.HotelService
	bookings map[int64]domain.Booking

	nextRoomID    int64
	nextGuestID   int64
	nextBookingID int64
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    map[int64]domain.Room{},
		guests:   map[int64]domain.Guest{},
		services: map[int64]domain.HotelService{},
		bookings: map[int64]domain.Booking{},
	}
}

func (m *memStore) addRoom(number string, typ domain.RoomType, status domain.RoomStatus) domain.Room {
	m.nextRoomID++
	r := domain.Room{ID: m.nextRoomID, Number: number, Type: typ, Status: status}
	m.rooms[r.ID] = r
	return r
}

func (m *memStore) addService(s domain.HotelService) domain.HotelService {
	m.services[s.ID] = s
	return s
}

func (m *memStore) addGuest(g domain.Guest) domain.Guest {
	m.nextGuestID++
	g.ID = m.nextGuestID
	m.guests[g.ID] = g
	return g
}

func (m *memStore) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	return fn(m)
}

func (m *memStore) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memStore) GetRoomByNumber(ctx context.Context, number string) (domain.Room, error) {
	for _, r := range m.rooms {
		if r.Number == number {
			return r, nil
		}
	}
	return domain.Room{}, domain.ErrNotFound
}

func (m *memStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SaveRoom(ctx context.Context, r domain.Room) (domain.Room, error) {
	if r.ID == 0 {
		m.nextRoomID++
		r.ID = m.nextRoomID
	}
	m.rooms[r.ID] = r
	return r, nil
}

func (m *memStore) RoomExists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.rooms[id]
	return ok, nil
}

func (m *memStore) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	g, ok := m.guests[id]
	if !ok {
		return domain.Guest{}, domain.ErrNotFound
	}
	return g, nil
}

func (m *memStore) GetGuestByEmail(ctx context.Context, email string) (domain.Guest, error) {
	for _, g := range m.guests {
		if g.Email == email {
			return g, nil
		}
	}
	return domain.Guest{}, domain.ErrNotFound
}

func (m *memStore) SaveGuest(ctx context.Context, g domain.Guest) (domain.Guest, error) {
	if g.ID == 0 {
		m.nextGuestID++
		g.ID = m.nextGuestID
	}
	m.guests[g.ID] = g
	return g, nil
}

func (m *memStore) GetServices(ctx context.Context, ids []int64) ([]domain.HotelService, error) {
	var out []domain.HotelService
	for _, id := range ids {
		if s, ok := m.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *memStore) GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error) {
	for _, b := range m.bookings {
		if b.Reference == ref {
			return b, nil
		}
	}
	return domain.Booking{}, domain.ErrNotFound
}

func (m *memStore) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListBookingsByGuestEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	all, _ := m.ListBookings(ctx)
	out := all[:0:0]
	for _, b := range all {
		if b.Guest.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) SaveBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.ID == 0 {
		m.nextBookingID++
		b.ID = m.nextBookingID
	}
	// Reads join the live room row, mirror that here.
	if r, ok := m.rooms[b.Room.ID]; ok {
		b.Room = r
	}
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memStore) DeleteBooking(ctx context.Context, id int64) error {
	if _, ok := m.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memStore) ListOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]domain.Booking, error) {
	all, _ := m.ListBookings(ctx)
	out := all[:0:0]
	for _, b := range all {
		if b.Room.ID == roomID && b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListActive(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	all, _ := m.ListBookings(ctx)
	out := all[:0:0]
	for _, b := range all {
		if !b.CheckIn.After(now) && b.CheckOut.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListCompleted(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	all, _ := m.ListBookings(ctx)
	out := all[:0:0]
	for _, b := range all {
		if !b.CheckOut.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

// memCache round-trips values through JSON so any snapshot type works.
type memCache struct {
	store map[string][]byte
}

func newMemCache() *memCache { return &memCache{store: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}
