package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// State is what the admin endpoints report. The scan loop writes it once
// per cycle.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCycleUnix atomic.Int64 // unix seconds
	lastCycleOK   atomic.Bool
	cycles        atomic.Int64
	tracked       atomic.Int64

	mu          sync.Mutex
	lastCycleID string
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// RecordCycle stores the outcome of a finished cycle. The service becomes
// ready after the first successful one.
func (s *State) RecordCycle(id string, at time.Time, ok bool, tracked int) {
	s.mu.Lock()
	s.lastCycleID = id
	s.mu.Unlock()

	s.lastCycleUnix.Store(at.Unix())
	s.lastCycleOK.Store(ok)
	s.cycles.Add(1)
	s.tracked.Store(int64(tracked))
	if ok {
		s.SetReady(true)
	}
}

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) LastCycleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCycleID
}

func (s *State) LastCycleOK() bool { return s.lastCycleOK.Load() }
func (s *State) Cycles() int64     { return s.cycles.Load() }
func (s *State) Tracked() int      { return int(s.tracked.Load()) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
