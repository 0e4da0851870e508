package app_test

import (
	"context"
	"errors"
	"testing"

	"grandstay/internal/app"
	"grandstay/internal/domain"
)

// Two guests, three rooms, two bookings inside the reporting window and one
// safely outside it.
func reportFixture(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	r1 := store.addRoom("101", domain.RoomSingle, domain.RoomAvailable)
	r2 := store.addRoom("102", domain.RoomDouble, domain.RoomAvailable)
	store.addRoom("201", domain.RoomDeluxe, domain.RoomAvailable)

	alice := store.addGuest(domain.Guest{FullName: "Alice Brown", Email: "alice@email.com"})
	bob := store.addGuest(domain.Guest{FullName: "Bob Green", Email: "bob@email.com"})

	ctx := context.Background()
	// 2 nights single: 200 room + 30 services
	_, _ = store.SaveBooking(ctx, domain.Booking{
		Reference: "BK100001", Guest: alice, Room: r1,
		CheckIn: day(10), CheckOut: day(12), TotalPrice: dec("230"),
	})
	// 3 nights double: 450 room, no services
	_, _ = store.SaveBooking(ctx, domain.Booking{
		Reference: "BK100002", Guest: bob, Room: r2,
		CheckIn: day(11), CheckOut: day(14), TotalPrice: dec("450"),
	})
	// outside the window
	_, _ = store.SaveBooking(ctx, domain.Booking{
		Reference: "BK100003", Guest: alice, Room: r1,
		CheckIn: day(25), CheckOut: day(27), TotalPrice: dec("200"),
	})
	return store
}

func TestOccupancyReport(t *testing.T) {
	store := reportFixture(t)
	rep := app.NewReportService(store)

	out, err := rep.Occupancy(context.Background(), day(10), day(15))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.TotalRooms != 3 || out.OccupiedRooms != 2 {
		t.Fatalf("rooms = %d/%d, want 2/3", out.OccupiedRooms, out.TotalRooms)
	}
	if out.OccupancyRate != 66.67 {
		t.Fatalf("rate = %v, want 66.67", out.OccupancyRate)
	}
}

func TestRevenueReport(t *testing.T) {
	store := reportFixture(t)
	rep := app.NewReportService(store)

	out, err := rep.Revenue(context.Background(), day(10), day(15))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.TotalBookings != 2 {
		t.Fatalf("bookings = %d, want 2", out.TotalBookings)
	}
	if !out.TotalRevenue.Equal(dec("680")) {
		t.Fatalf("total = %s, want 680", out.TotalRevenue)
	}
	if !out.RoomRevenue.Equal(dec("650")) {
		t.Fatalf("room = %s, want 650", out.RoomRevenue)
	}
	if !out.ServicesRevenue.Equal(dec("30")) {
		t.Fatalf("services = %s, want 30", out.ServicesRevenue)
	}
}

func TestGuestActivityReport(t *testing.T) {
	store := reportFixture(t)
	rep := app.NewReportService(store)

	out, err := rep.GuestActivityByEmail(context.Background(), "alice@email.com")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.GuestName != "Alice Brown" || out.TotalBookings != 2 {
		t.Fatalf("unexpected report: %+v", out)
	}
	if !out.TotalSpent.Equal(dec("430")) {
		t.Fatalf("spent = %s, want 430", out.TotalSpent)
	}
	if len(out.Bookings) != 2 || out.Bookings[0].RoomNumber != "101" {
		t.Fatalf("unexpected lines: %+v", out.Bookings)
	}

	_, err = rep.GuestActivityByEmail(context.Background(), "nobody@email.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
