package loop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by explicit calls to Advance. Used by tests
// and by the headless executor, which has no reason to wait in real time.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

// NewManual creates a manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	m    *Manual
	at   time.Duration
	seq  int
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.m.drop(t)
	return true
}

// AfterFunc schedules fn to run once Advance moves past d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward by d, running every callback that comes
// due in deadline order. Callbacks scheduled while advancing also run if
// they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.now = next.at
		next.done = true
		m.drop(next)
		next.fn()
	}
	m.now = end
}

// Flush runs every pending callback regardless of its deadline.
func (m *Manual) Flush() {
	for len(m.pending) > 0 {
		latest := m.now
		for _, t := range m.pending {
			if t.at > latest {
				latest = t.at
			}
		}
		m.Advance(latest - m.now)
	}
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) nextDue(end time.Duration) *manualTimer {
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at == m.pending[j].at {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].at < m.pending[j].at
	})
	if m.pending[0].at > end {
		return nil
	}
	return m.pending[0]
}

func (m *Manual) drop(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}
