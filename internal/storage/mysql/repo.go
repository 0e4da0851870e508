package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"grandstay/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same repo code
// serves plain calls and transactional ones.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct {
	db *sql.DB
	q  querier
}

func New(db *sql.DB) *Repo { return &Repo{db: db, q: db} }

// WithinTx runs fn against a repo bound to one transaction. Nested calls
// reuse the surrounding transaction.
func (r *Repo) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	if _, nested := r.q.(*sql.Tx); nested {
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Repo{db: r.db, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return "(?" + strings.Repeat(",?", n-1) + ")"
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

func scanRoom(row interface{ Scan(...any) error }) (domain.Room, error) {
	var rm domain.Room
	if err := row.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, err
	}
	return rm, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return scanRoom(r.q.QueryRowContext(ctx, getRoomSQL, id))
}

func (r *Repo) GetRoomByNumber(ctx context.Context, number string) (domain.Room, error) {
	return scanRoom(r.q.QueryRowContext(ctx, getRoomByNumberSQL, number))
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.q.QueryContext(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) SaveRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	if rm.ID == 0 {
		res, err := r.q.ExecContext(ctx, insertRoomSQL, rm.Number, rm.Type, rm.Status)
		if err != nil {
			return domain.Room{}, err
		}
		id, _ := res.LastInsertId()
		if id != 0 {
			rm.ID = id
			return rm, nil
		}
		// Upsert hit an existing row; read the id back.
		return r.GetRoomByNumber(ctx, rm.Number)
	}
	_, err := r.q.ExecContext(ctx, updateRoomSQL, rm.Number, rm.Type, rm.Status, rm.ID)
	return rm, err
}

func (r *Repo) RoomExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, roomExistsSQL, id).Scan(&exists)
	return exists, err
}

// ---------------------------------------------------------------------------
// Guests
// ---------------------------------------------------------------------------

func scanGuest(row interface{ Scan(...any) error }) (domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(&g.ID, &g.FullName, &g.Email, &g.PasswordHash,
		&g.PhoneNumber, &g.Country, &g.Address, &g.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Guest{}, domain.ErrNotFound
		}
		return domain.Guest{}, err
	}
	return g, nil
}

func (r *Repo) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	return scanGuest(r.q.QueryRowContext(ctx, getGuestSQL, id))
}

func (r *Repo) GetGuestByEmail(ctx context.Context, email string) (domain.Guest, error) {
	return scanGuest(r.q.QueryRowContext(ctx, getGuestByEmailSQL, email))
}

func (r *Repo) SaveGuest(ctx context.Context, g domain.Guest) (domain.Guest, error) {
	if g.ID == 0 {
		res, err := r.q.ExecContext(ctx, insertGuestSQL,
			g.FullName, g.Email, g.PasswordHash, g.PhoneNumber, g.Country, g.Address, g.City)
		if err != nil {
			return domain.Guest{}, err
		}
		g.ID, _ = res.LastInsertId()
		return g, nil
	}
	_, err := r.q.ExecContext(ctx, updateGuestSQL,
		g.FullName, g.Email, g.PasswordHash, g.PhoneNumber, g.Country, g.Address, g.City, g.ID)
	return g, err
}

// ---------------------------------------------------------------------------
// Services
// ---------------------------------------------------------------------------

func scanService(row interface{ Scan(...any) error }) (domain.HotelService, error) {
	var s domain.HotelService
	var duration sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &s.PricingType, &s.Price, &duration); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HotelService{}, domain.ErrNotFound
		}
		return domain.HotelService{}, err
	}
	if duration.Valid {
		d := duration.String
		s.Duration = &d
	}
	return s, nil
}

func (r *Repo) GetServices(ctx context.Context, ids []int64) ([]domain.HotelService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.q.QueryContext(ctx, servicesByIDPrefix+placeholders(len(ids)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertService is used by the seeder; services are keyed by unique name.
func (r *Repo) UpsertService(ctx context.Context, s domain.HotelService) error {
	var duration any
	if s.Duration != nil {
		duration = *s.Duration
	}
	_, err := r.q.ExecContext(ctx, upsertServiceSQL, s.Name, s.PricingType, s.Price, duration)
	return err
}

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.Reference, &b.CheckIn, &b.CheckOut, &b.TotalPrice,
		&b.Guest.ID, &b.Guest.FullName, &b.Guest.Email, &b.Guest.PasswordHash,
		&b.Guest.PhoneNumber, &b.Guest.Country, &b.Guest.Address, &b.Guest.City,
		&b.Room.ID, &b.Room.Number, &b.Room.Type, &b.Room.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) getBookingRow(ctx context.Context, query string, args ...any) (domain.Booking, error) {
	b, err := scanBooking(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Booking{}, err
	}
	bs := []domain.Booking{b}
	if err := r.attachDetails(ctx, bs); err != nil {
		return domain.Booking{}, err
	}
	return bs[0], nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return r.getBookingRow(ctx, getBookingSQL, id)
}

func (r *Repo) GetBookingByReference(ctx context.Context, ref string) (domain.Booking, error) {
	return r.getBookingRow(ctx, getBookingByReferenceSQL, ref)
}

func (r *Repo) listBookingRows(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return r.listBookingRows(ctx, listBookingsSQL)
}

func (r *Repo) ListBookingsByGuestEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.listBookingRows(ctx, listBookingsByGuestEmailSQL, email)
}

func (r *Repo) ListOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time) ([]domain.Booking, error) {
	return r.listBookingRows(ctx, listOverlappingSQL, roomID, checkOut, checkIn)
}

func (r *Repo) ListActive(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	return r.listBookingRows(ctx, listActiveSQL, now, now)
}

func (r *Repo) ListCompleted(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	return r.listBookingRows(ctx, listCompletedSQL, now)
}

// attachDetails loads additional-guest names and service rows for a batch of
// bookings in two IN queries.
func (r *Repo) attachDetails(ctx context.Context, bs []domain.Booking) error {
	if len(bs) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Booking, len(bs))
	args := make([]any, 0, len(bs))
	for i := range bs {
		byID[bs[i].ID] = &bs[i]
		args = append(args, bs[i].ID)
	}
	ph := placeholders(len(bs))

	rows, err := r.q.QueryContext(ctx, listBookingGuestsPrefix+ph+" ORDER BY booking_id, position", args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID int64
		var name string
		if err := rows.Scan(&bookingID, &name); err != nil {
			return err
		}
		if b := byID[bookingID]; b != nil {
			b.AdditionalGuests = append(b.AdditionalGuests, name)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	srows, err := r.q.QueryContext(ctx, listBookingServicesPrefix+ph+" ORDER BY bs.booking_id, s.id", args...)
	if err != nil {
		return err
	}
	defer srows.Close()
	for srows.Next() {
		var bookingID int64
		var qty int
		var svc domain.HotelService
		var duration sql.NullString
		if err := srows.Scan(&bookingID, &qty, &svc.ID, &svc.Name, &svc.PricingType, &svc.Price, &duration); err != nil {
			return err
		}
		if duration.Valid {
			d := duration.String
			svc.Duration = &d
		}
		if b := byID[bookingID]; b != nil {
			b.Services = append(b.Services, svc)
			if b.Quantities == nil {
				b.Quantities = make(map[int64]int)
			}
			b.Quantities[svc.ID] = qty
		}
	}
	return srows.Err()
}

// SaveBooking writes the booking row and replaces its child rows. Callers
// run it inside WithinTx so the aggregate commits atomically.
func (r *Repo) SaveBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.ID == 0 {
		res, err := r.q.ExecContext(ctx, insertBookingSQL,
			b.Reference, b.Guest.ID, b.Room.ID, b.CheckIn, b.CheckOut, b.TotalPrice)
		if err != nil {
			return domain.Booking{}, err
		}
		b.ID, _ = res.LastInsertId()
	} else {
		_, err := r.q.ExecContext(ctx, updateBookingSQL,
			b.Guest.ID, b.Room.ID, b.CheckIn, b.CheckOut, b.TotalPrice, b.ID)
		if err != nil {
			return domain.Booking{}, err
		}
	}

	if _, err := r.q.ExecContext(ctx, deleteBookingGuestsSQL, b.ID); err != nil {
		return domain.Booking{}, err
	}
	for i, name := range b.AdditionalGuests {
		if _, err := r.q.ExecContext(ctx, insertBookingGuestSQL, b.ID, i, name); err != nil {
			return domain.Booking{}, err
		}
	}

	if _, err := r.q.ExecContext(ctx, deleteBookingServicesSQL, b.ID); err != nil {
		return domain.Booking{}, err
	}
	// Stable order keeps replays deterministic.
	ids := make([]int64, 0, len(b.Services))
	for _, svc := range b.Services {
		ids = append(ids, svc.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		qty := 1
		if q, ok := b.Quantities[id]; ok {
			qty = q
		}
		if _, err := r.q.ExecContext(ctx, insertBookingServiceSQL, b.ID, id, qty); err != nil {
			return domain.Booking{}, err
		}
	}
	return b, nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, deleteBookingGuestsSQL, id); err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx, deleteBookingServicesSQL, id); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
