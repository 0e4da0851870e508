package mysql

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const roomColumns = "id, room_number, room_type, room_status"

const getRoomSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`

const getRoomByNumberSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE room_number = ?`

const listRoomsSQL = `SELECT ` + roomColumns + ` FROM rooms ORDER BY room_number`

const roomExistsSQL = `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)`

const insertRoomSQL = `
INSERT INTO rooms (room_number, room_type, room_status)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  room_type   = VALUES(room_type),
  room_status = VALUES(room_status)
`

const updateRoomSQL = `
UPDATE rooms SET room_number = ?, room_type = ?, room_status = ? WHERE id = ?
`

// -----------------------------------------------------------------------------
// GUESTS
// -----------------------------------------------------------------------------

const guestColumns = "id, full_name, email, password_hash, phone_number, country, address, city"

const getGuestSQL = `SELECT ` + guestColumns + ` FROM guests WHERE id = ?`

const getGuestByEmailSQL = `SELECT ` + guestColumns + ` FROM guests WHERE email = ?`

const insertGuestSQL = `
INSERT INTO guests (full_name, email, password_hash, phone_number, country, address, city)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateGuestSQL = `
UPDATE guests
SET full_name = ?, email = ?, password_hash = ?, phone_number = ?, country = ?, address = ?, city = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// SERVICES
// -----------------------------------------------------------------------------

const serviceColumns = "id, name, pricing_type, price, duration"

// servicesByIDPrefix is completed with a (?,...) placeholder list per call.
const servicesByIDPrefix = `SELECT ` + serviceColumns + ` FROM hotel_services WHERE id IN `

const upsertServiceSQL = `
INSERT INTO hotel_services (name, pricing_type, price, duration)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  pricing_type = VALUES(pricing_type),
  price        = VALUES(price),
  duration     = VALUES(duration)
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

// Booking reads join the owning guest and room so one row carries the whole
// aggregate minus services and extra guest names.
const bookingSelect = `
SELECT
  b.id, b.reference, b.check_in, b.check_out, b.total_price,
  g.id, g.full_name, g.email, g.password_hash, g.phone_number, g.country, g.address, g.city,
  r.id, r.room_number, r.room_type, r.room_status
FROM bookings b
JOIN guests g ON g.id = b.guest_id
JOIN rooms  r ON r.id = b.room_id
`

const getBookingSQL = bookingSelect + `WHERE b.id = ?`

const getBookingByReferenceSQL = bookingSelect + `WHERE b.reference = ?`

const listBookingsSQL = bookingSelect + `ORDER BY b.id`

const listBookingsByGuestEmailSQL = bookingSelect + `WHERE g.email = ? ORDER BY b.id`

// Half-open overlap: an existing check-out equal to the new check-in is not
// a conflict.
const listOverlappingSQL = bookingSelect + `
WHERE b.room_id = ? AND b.check_in < ? AND b.check_out > ?
ORDER BY b.id`

const listActiveSQL = bookingSelect + `
WHERE b.check_in <= ? AND b.check_out > ?
ORDER BY b.id`

const listCompletedSQL = bookingSelect + `
WHERE b.check_out <= ?
ORDER BY b.id`

const insertBookingSQL = `
INSERT INTO bookings (reference, guest_id, room_id, check_in, check_out, total_price)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE bookings
SET guest_id = ?, room_id = ?, check_in = ?, check_out = ?, total_price = ?
WHERE id = ?
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

// Child rows are replaced wholesale on every save; booking content is always
// recomputed from scratch, never diffed.
const deleteBookingGuestsSQL = `DELETE FROM booking_guests WHERE booking_id = ?`

const insertBookingGuestSQL = `
INSERT INTO booking_guests (booking_id, position, guest_name) VALUES (?, ?, ?)
`

const deleteBookingServicesSQL = `DELETE FROM booking_services WHERE booking_id = ?`

const insertBookingServiceSQL = `
INSERT INTO booking_services (booking_id, service_id, quantity) VALUES (?, ?, ?)
`

const listBookingGuestsPrefix = `
SELECT booking_id, guest_name FROM booking_guests WHERE booking_id IN `

const listBookingServicesPrefix = `
SELECT bs.booking_id, bs.quantity, s.id, s.name, s.pricing_type, s.price, s.duration
FROM booking_services bs
JOIN hotel_services s ON s.id = bs.service_id
WHERE bs.booking_id IN `
