package service

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

// Entry is the strategy instance of one instrument. Only the scan loop
// mutates it; the registry lock guards the map, not the entry.
type Entry struct {
	InstrumentID string
	Ticker       string
	Params       Params
	Detector     Detector

	LastSample models.EmaSample
	HasSample  bool
	CreatedAt  time.Time
	LastSeen   time.Time
}

// Registry maps instrument id to its strategy instance. Entries are created
// lazily and survive across scan cycles, so detector state carries over.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	params      Params
	newDetector DetectorFactory
	evictAfter  time.Duration
	now         func() time.Time
}

type RegistryOption func(*Registry)

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func WithEvictAfter(d time.Duration) RegistryOption {
	return func(r *Registry) { r.evictAfter = d }
}

func NewRegistry(params Params, newDetector DetectorFactory, opts ...RegistryOption) *Registry {
	r := &Registry{
		entries:     make(map[string]*Entry),
		params:      params,
		newDetector: newDetector,
		now:         time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func NewRegistryFromConfig(cfg *config.Config) *Registry {
	return NewRegistry(NewParams(cfg), NewDetector, WithEvictAfter(cfg.Strategy.EvictAfter))
}

// GetOrCreate returns the entry for id, creating it with the registry's
// params on first sight. Every call marks the entry as seen.
func (r *Registry) GetOrCreate(id, ticker string) *Entry {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.LastSeen = now
		if ticker != "" {
			e.Ticker = ticker
		}
		return e
	}

	e := &Entry{
		InstrumentID: id,
		Ticker:       ticker,
		Params:       r.params,
		Detector:     r.newDetector(r.params),
		CreatedAt:    now,
		LastSeen:     now,
	}
	r.entries[id] = e
	return e
}

func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the tracked instrument ids in ascending order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := lo.Keys(r.entries)
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Prune drops entries not seen for longer than the eviction window and
// returns their ids. With no window configured it is a no-op.
func (r *Registry) Prune() []string {
	if r.evictAfter <= 0 {
		return nil
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	stale := lo.Filter(lo.Values(r.entries), func(e *Entry, _ int) bool {
		return now.Sub(e.LastSeen) > r.evictAfter
	})
	ids := make([]string, 0, len(stale))
	for _, e := range stale {
		delete(r.entries, e.InstrumentID)
		ids = append(ids, e.InstrumentID)
	}
	sort.Strings(ids)
	return ids
}
