package pipeline

import (
	"maps"
	"sync"
	"time"
)

// Observer receives pipeline progress. Implementations must be safe for
// concurrent use.
type Observer interface {
	// PhaseDone is called once per phase with its wall time.
	PhaseDone(phase string, rows int, d time.Duration, err error)
	// Degraded is called once per column per run with its degradation count.
	Degraded(column string, n int)
}

type nopObserver struct{}

func (nopObserver) PhaseDone(string, int, time.Duration, error) {}
func (nopObserver) Degraded(string, int)                        {}

// Stats counts field-level degradations per column. Degradations are data
// conditions, not errors.
type Stats struct {
	mu       sync.Mutex
	degraded map[string]int
	failures map[string]int
}

func newStats() *Stats {
	return &Stats{
		degraded: make(map[string]int),
		failures: make(map[string]int),
	}
}

// degrade records one defaulted cell in column.
func (s *Stats) degrade(column string) {
	s.add(column, 1)
}

func (s *Stats) add(column string, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.degraded[column] += n
	s.mu.Unlock()
}

func (s *Stats) fail(column string) {
	s.mu.Lock()
	s.failures[column]++
	s.mu.Unlock()
}

// Degraded returns a copy of the per-column degradation counts.
func (s *Stats) Degraded() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.degraded)
}

// Failures returns a copy of the per-column isolated failure counts.
func (s *Stats) Failures() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.failures)
}

// Total is the number of degraded cells across all columns.
func (s *Stats) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.degraded {
		n += c
	}
	return n
}

// diff returns the counts added since before.
func diff(before, after map[string]int) map[string]int {
	out := make(map[string]int)
	for k, v := range after {
		if d := v - before[k]; d > 0 {
			out[k] = d
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
