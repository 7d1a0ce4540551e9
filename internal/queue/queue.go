package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// DefaultCapacity is the number of simultaneous synthesis calls allowed
// when no capacity is configured.
const DefaultCapacity = 5

// ErrNotHeld is returned by Release when no slot is held.
var ErrNotHeld = errors.New("release without matching acquire")

// Gate is a counting admission gate. A slot must be acquired before calling
// the synthesizer and released as soon as the call returns.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int

	mu    sync.Mutex
	stats Stats
}

// Stats tracks gate usage
type Stats struct {
	Capacity    int           // Maximum concurrent holders
	InFlight    int           // Slots currently held
	Peak        int           // Highest InFlight observed
	Acquired    int64         // Total successful acquisitions
	Abandoned   int64         // Waits ended by context cancellation
	LastAcquire time.Time     // Time of the last acquisition
	TotalWait   time.Duration // Cumulative time spent waiting for a slot
}

// NewGate creates a gate admitting at most capacity holders.
// A capacity below one is treated as one.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
		stats:    Stats{Capacity: capacity},
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	start := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		g.mu.Lock()
		g.stats.Abandoned++
		g.mu.Unlock()
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.stats.InFlight++
	if g.stats.InFlight > g.stats.Peak {
		g.stats.Peak = g.stats.InFlight
	}
	g.stats.Acquired++
	g.stats.LastAcquire = time.Now()
	g.stats.TotalWait += g.stats.LastAcquire.Sub(start)

	return nil
}

// Release frees a slot taken by Acquire.
func (g *Gate) Release() error {
	g.mu.Lock()
	if g.stats.InFlight == 0 {
		g.mu.Unlock()
		return ErrNotHeld
	}
	g.stats.InFlight--
	g.mu.Unlock()

	g.sem.Release(1)
	return nil
}

// Capacity returns the maximum number of concurrent holders.
func (g *Gate) Capacity() int {
	return g.capacity
}

// Stats returns a snapshot of gate usage.
func (g *Gate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}
