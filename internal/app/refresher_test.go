package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/wellness_client/internal/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingLister struct {
	calls atomic.Int32
	err   error
}

func (c *countingLister) ListMine(context.Context) ([]model.Plan, error) {
	c.calls.Add(1)
	return nil, c.err
}

func TestRefresher_RefreshesUntilStopped(t *testing.T) {
	lister := &countingLister{}
	r := NewRefresher(lister, nil, 5*time.Millisecond, zap.NewNop())

	r.Start(context.Background())
	assert.Eventually(t, func() bool { return lister.calls.Load() >= 3 }, time.Second, time.Millisecond)

	r.Stop()
	stopped := lister.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, lister.calls.Load())

	r.Stop()
}

func TestRefresher_KeepsRunningAfterErrors(t *testing.T) {
	lister := &countingLister{err: errors.New("offline")}
	r := NewRefresher(lister, nil, 5*time.Millisecond, zap.NewNop())

	r.Start(context.Background())
	defer r.Stop()

	assert.Eventually(t, func() bool { return lister.calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestRefresher_SkipsWithoutSession(t *testing.T) {
	lister := &countingLister{}
	var ready atomic.Bool
	r := NewRefresher(lister, ready.Load, 5*time.Millisecond, zap.NewNop())

	r.Start(context.Background())
	defer r.Stop()

	time.Sleep(25 * time.Millisecond)
	assert.Zero(t, lister.calls.Load())

	ready.Store(true)
	assert.Eventually(t, func() bool { return lister.calls.Load() >= 1 }, time.Second, time.Millisecond)
}

func TestRefresher_StopsOnContextCancel(t *testing.T) {
	lister := &countingLister{}
	r := NewRefresher(lister, nil, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
	assert.EqualValues(t, 1, lister.calls.Load())
}

func TestRefresher_ZeroIntervalDisables(t *testing.T) {
	lister := &countingLister{}
	r := NewRefresher(lister, nil, 0, zap.NewNop())

	r.Start(context.Background())
	r.Stop()

	assert.Zero(t, lister.calls.Load())
}
