package ticketid

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setStore struct {
	mu    sync.Mutex
	taken map[int]bool
	err   error
}

func (s *setStore) TicketIDExists(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	return s.taken[id], nil
}

type memReserver struct {
	mu      sync.Mutex
	claimed map[int]bool
	err     error
}

func (r *memReserver) Reserve(_ context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if r.claimed[id] {
		return false, nil
	}
	r.claimed[id] = true
	return true, nil
}

type countingRecorder struct{ n int }

func (c *countingRecorder) RecordIDCollision() { c.n++ }

// sequence returns the given offsets in order, then repeats the last one.
func sequence(offsets ...int) func(int) int {
	i := 0
	return func(int) int {
		v := offsets[i]
		if i < len(offsets)-1 {
			i++
		}
		return v
	}
}

func TestNextSkipsExistingIDs(t *testing.T) {
	store := &setStore{taken: map[int]bool{Min: true, Min + 1: true}}
	rec := &countingRecorder{}
	a := NewAllocator(store, Options{IntN: sequence(0, 1, 2), Metrics: rec})

	id, err := a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Min+2, id)
	assert.Equal(t, 2, rec.n)
}

func TestNextRange(t *testing.T) {
	a := NewAllocator(&setStore{taken: map[int]bool{}}, Options{})
	for i := 0; i < 500; i++ {
		id, err := a.Next(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, Min)
		assert.LessOrEqual(t, id, Max)
	}

	top := NewAllocator(&setStore{taken: map[int]bool{}}, Options{IntN: func(n int) int { return n - 1 }})
	id, err := top.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Max, id)
}

func TestNextExhausted(t *testing.T) {
	store := &setStore{taken: map[int]bool{Min: true}}
	a := NewAllocator(store, Options{IntN: sequence(0), MaxAttempts: 3})

	_, err := a.Next(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNextPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	a := NewAllocator(&setStore{err: boom}, Options{})
	_, err := a.Next(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNextHonoursReservations(t *testing.T) {
	reserver := &memReserver{claimed: map[int]bool{Min: true}}
	a := NewAllocator(&setStore{taken: map[int]bool{}}, Options{IntN: sequence(0, 5), Reserver: reserver})

	id, err := a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Min+5, id)
	assert.True(t, reserver.claimed[Min+5])
}

func TestNextFallsBackWhenReserverFails(t *testing.T) {
	reserver := &memReserver{err: errors.New("redis unreachable")}
	a := NewAllocator(&setStore{taken: map[int]bool{}}, Options{IntN: sequence(7), Reserver: reserver})

	id, err := a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Min+7, id)
}

func TestConcurrentReservationsAreDistinct(t *testing.T) {
	reserver := &memReserver{claimed: map[int]bool{}}
	a := NewAllocator(&setStore{taken: map[int]bool{}}, Options{Reserver: reserver, MaxAttempts: 1000})

	const n = 200
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Next(context.Background())
			if err != nil {
				t.Errorf("next failed: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if _, dup := seen[id]; dup {
				t.Errorf("duplicate %d", id)
			}
			seen[id] = struct{}{}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestReservationKey(t *testing.T) {
	assert.Equal(t, "streamline:ticket-id:123456", reservationKey(123456))
}
