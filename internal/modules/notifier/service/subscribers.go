package service

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"signal_bot/internal/metrics"
	"signal_bot/pkg/logger"
)

// Subscribers is the set of chat ids that receive signals. The lock is held
// only for a single mutation or a snapshot copy, never across I/O, so adding
// a subscriber never waits on a broadcast in progress.
type Subscribers struct {
	mu  sync.Mutex
	set map[int64]struct{}

	store Store
}

// NewSubscribers builds an empty set. store may be nil for memory-only mode.
func NewSubscribers(store Store) *Subscribers {
	return &Subscribers{
		set:   make(map[int64]struct{}),
		store: store,
	}
}

// Restore fills the set from the store.
func (s *Subscribers) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	ids, err := s.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load subscribers")
	}

	s.mu.Lock()
	for _, id := range ids {
		s.set[id] = struct{}{}
	}
	n := len(s.set)
	s.mu.Unlock()

	metrics.Subscribers.Set(float64(n))
	logger.Info("[NOTIFY] restored %d subscribers", n)
	return nil
}

// Add inserts id and reports whether it was new. A store failure is
// returned, but the id stays subscribed for this process.
func (s *Subscribers) Add(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	_, exists := s.set[id]
	s.set[id] = struct{}{}
	n := len(s.set)
	s.mu.Unlock()

	if exists {
		return false, nil
	}
	metrics.Subscribers.Set(float64(n))

	if s.store != nil {
		if err := s.store.Add(ctx, id); err != nil {
			return true, errors.Wrapf(err, "persist subscriber %d", id)
		}
	}
	return true, nil
}

// Remove deletes id and reports whether it was present.
func (s *Subscribers) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	_, exists := s.set[id]
	delete(s.set, id)
	n := len(s.set)
	s.mu.Unlock()

	if !exists {
		return false, nil
	}
	metrics.Subscribers.Set(float64(n))

	if s.store != nil {
		if err := s.store.Remove(ctx, id); err != nil {
			return true, errors.Wrapf(err, "forget subscriber %d", id)
		}
	}
	return true, nil
}

func (s *Subscribers) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[id]
	return ok
}

func (s *Subscribers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

// Snapshot copies the current ids, ascending.
func (s *Subscribers) Snapshot() []int64 {
	s.mu.Lock()
	ids := lo.Keys(s.set)
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
