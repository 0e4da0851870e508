package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Reconciler periodically corrects room status drift from missed synchronous
// updates. It is an explicit ticker task owned by the process, not hidden
// framework state: Start blocks until the context ends or Stop is called.
type Reconciler struct {
	bookings *BookingService
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// OnSweep, when set, observes each completed sweep (metrics hook).
	OnSweep func(changed int, err error)
}

func NewReconciler(bookings *BookingService, interval time.Duration) *Reconciler {
	return &Reconciler{
		bookings: bookings,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs an immediate sweep, then one per interval. Safe to call once.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	log.Info().Dur("interval", r.interval).Msg("room status reconciler started")

	r.sweep(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("room status reconciler stopped by context")
			return ctx.Err()
		case <-r.stopCh:
			log.Info().Msg("room status reconciler stopped")
			return nil
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.running {
		r.running = false
		close(r.stopCh)
	}
	r.mu.Unlock()
}

func (r *Reconciler) sweep(ctx context.Context) {
	now := time.Now()
	changed, err := r.bookings.ReconcileRoomStatuses(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("room status sweep failed")
	} else if changed > 0 {
		log.Info().Int("transitions", changed).Time("now", now).Msg("room status sweep applied changes")
	} else {
		log.Debug().Time("now", now).Msg("room status sweep: no drift")
	}
	if r.OnSweep != nil {
		r.OnSweep(changed, err)
	}
}
