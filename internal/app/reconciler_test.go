package app_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grandstay/internal/app"
	"grandstay/internal/domain"
)

func TestReconciler_SweepsOnStartAndTick(t *testing.T) {
	store := newMemStore()
	room := store.addRoom("101", domain.RoomSingle, domain.RoomAvailable)
	// Stay in progress right now; the first sweep must flip the room.
	seedBooking(store, room, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	svc, _ := newService(store)
	rec := app.NewReconciler(svc, 20*time.Millisecond)

	var sweeps atomic.Int32
	var transitions atomic.Int32
	rec.OnSweep = func(changed int, err error) {
		require.NoError(t, err)
		sweeps.Add(1)
		transitions.Add(int32(changed))
	}

	done := make(chan error, 1)
	go func() { done <- rec.Start(context.Background()) }()

	require.Eventually(t, func() bool { return sweeps.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	rec.Stop()
	require.NoError(t, <-done)

	require.Equal(t, int32(1), transitions.Load(), "only the first sweep should transition")
	require.Equal(t, domain.RoomOccupied, roomStatus(t, store, room.ID))
}

func TestReconciler_StopsOnContextCancel(t *testing.T) {
	svc, _ := newService(newMemStore())
	rec := app.NewReconciler(svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rec.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop on context cancel")
	}
}
