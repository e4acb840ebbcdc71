// Package ticketid hands out the random 6-digit numbers tickets are known by.
package ticketid

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

const (
	// Min and Max bound the generated ticket ids (inclusive).
	Min = 100000
	Max = 999999

	defaultMaxAttempts = 64
)

// ErrExhausted is returned when no free id was found within the attempt budget.
var ErrExhausted = errors.New("ticket id allocation exhausted")

// Store answers whether a ticket id is already in use.
type Store interface {
	TicketIDExists(ctx context.Context, ticketID int) (bool, error)
}

// Reserver claims a candidate so concurrent allocators skip it.
type Reserver interface {
	Reserve(ctx context.Context, ticketID int) (bool, error)
}

// CollisionRecorder counts rejected candidates.
type CollisionRecorder interface {
	RecordIDCollision()
}

// Options configures an Allocator. Zero values fall back to defaults.
type Options struct {
	Reserver    Reserver
	MaxAttempts int
	Logger      *zap.Logger
	Metrics     CollisionRecorder
	// IntN returns a value in [0, n); defaults to math/rand/v2.
	IntN func(n int) int
}

// Allocator implements generate-and-check id allocation.
type Allocator struct {
	store       Store
	reserver    Reserver
	maxAttempts int
	logger      *zap.Logger
	metrics     CollisionRecorder
	intN        func(n int) int
}

// NewAllocator builds an allocator over store.
func NewAllocator(store Store, opts Options) *Allocator {
	a := &Allocator{
		store:       store,
		reserver:    opts.Reserver,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		intN:        opts.IntN,
	}
	if a.maxAttempts <= 0 {
		a.maxAttempts = defaultMaxAttempts
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.intN == nil {
		a.intN = rand.Intn
	}
	return a
}

// Next returns a ticket id that is absent from the store and, when a reserver
// is configured, claimed by this caller.
func (a *Allocator) Next(ctx context.Context) (int, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		candidate := Min + a.intN(Max-Min+1)

		exists, err := a.store.TicketIDExists(ctx, candidate)
		if err != nil {
			return 0, fmt.Errorf("check ticket id %d: %w", candidate, err)
		}
		if exists {
			a.collision(candidate, attempt)
			continue
		}

		if a.reserver != nil {
			claimed, err := a.reserver.Reserve(ctx, candidate)
			if err != nil {
				// the unique index still guards the insert
				a.logger.Warn("ticket id reservation unavailable", zap.Int("ticket_id", candidate), zap.Error(err))
			} else if !claimed {
				a.collision(candidate, attempt)
				continue
			}
		}
		return candidate, nil
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrExhausted, a.maxAttempts)
}

func (a *Allocator) collision(candidate, attempt int) {
	if a.metrics != nil {
		a.metrics.RecordIDCollision()
	}
	a.logger.Debug("ticket id collision", zap.Int("ticket_id", candidate), zap.Int("attempt", attempt))
}
