package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/wellness_client/internal/model"
	"go.uber.org/zap"
)

// PlanLister re-reads the practitioner's plans into the service cache.
type PlanLister interface {
	ListMine(ctx context.Context) ([]model.Plan, error)
}

// Refresher keeps the plan cache warm in the background.
type Refresher struct {
	plans    PlanLister
	ready    func() bool
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewRefresher creates a refresher. ready gates each run, typically on a live
// session. A zero interval disables the refresher.
func NewRefresher(plans PlanLister, ready func() bool, interval time.Duration, logger *zap.Logger) *Refresher {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Refresher{
		plans:    plans,
		ready:    ready,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. The first refresh runs immediately.
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("Plan refresher disabled")
		close(r.done)
		return
	}

	r.logger.Info("Starting plan refresher", zap.Duration("interval", r.interval))
	go r.run(ctx)
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		r.logger.Info("Stopping plan refresher")
		close(r.stopChan)
	})
	<-r.done
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.stopChan:
			r.logger.Info("Plan refresher stopped")
			return
		case <-ctx.Done():
			r.logger.Info("Plan refresher cancelled")
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if !r.ready() {
		r.logger.Debug("Skipping plan refresh, no session")
		return
	}

	plans, err := r.plans.ListMine(ctx)
	if err != nil {
		r.logger.Warn("Plan refresh failed", zap.Error(err))
		return
	}

	r.logger.Debug("Plans refreshed", zap.Int("count", len(plans)))
}
