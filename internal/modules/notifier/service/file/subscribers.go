package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
)

// Subscribers keeps chat ids in a JSON snapshot file, rewritten atomically
// on every change.
type Subscribers struct {
	path string

	mu     sync.Mutex
	ids    map[int64]time.Time
	loaded bool
}

func NewSubscribers(path string) *Subscribers {
	return &Subscribers{
		path: path,
		ids:  make(map[int64]time.Time),
	}
}

func (s *Subscribers) Load(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	out := lo.Keys(s.ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Subscribers) Add(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	if _, ok := s.ids[id]; ok {
		return nil
	}
	s.ids[id] = time.Now().UTC()
	return s.saveLocked()
}

func (s *Subscribers) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	if _, ok := s.ids[id]; !ok {
		return nil
	}
	delete(s.ids, id)
	return s.saveLocked()
}

// ---- storage format ----

type record struct {
	ChatID    int64     `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

type snapshot struct {
	UpdatedAt   time.Time `json:"updated_at"`
	Subscribers []record  `json:"subscribers"`
}

func (s *Subscribers) loadLocked() error {
	if s.loaded {
		return nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var snap snapshot
	if err := sonic.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}

	s.ids = make(map[int64]time.Time, len(snap.Subscribers))
	for _, r := range snap.Subscribers {
		s.ids[r.ChatID] = r.CreatedAt
	}

	s.loaded = true
	return nil
}

func (s *Subscribers) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	recs := lo.MapToSlice(s.ids, func(id int64, at time.Time) record {
		return record{ChatID: id, CreatedAt: at}
	})
	sort.Slice(recs, func(i, j int) bool { return recs[i].ChatID < recs[j].ChatID })

	b, err := sonic.ConfigStd.MarshalIndent(&snapshot{
		UpdatedAt:   time.Now().UTC(),
		Subscribers: recs,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path) // atomic
}
