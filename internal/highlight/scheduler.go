package highlight

import (
	"sync"
	"time"
)

// DefaultDebounce is the standard debounce window between an edit event
// and the render it triggers.
const DefaultDebounce = 100 * time.Millisecond

// Scheduler coalesces rapid repeated triggers into a single delayed
// render: at most one render is pending at any time, and each new
// trigger cancels and replaces it. Latest wins; nothing is queued.
type Scheduler struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	render func()
}

// NewScheduler returns a scheduler calling render after the debounce
// window elapses without further triggers. delay <= 0 selects
// DefaultDebounce.
func NewScheduler(delay time.Duration, render func()) *Scheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Scheduler{delay: delay, render: render}
}

// Trigger restarts the debounce window, superseding any pending render.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.render)
}

// Stop cancels any pending render. The scheduler stays usable; a later
// Trigger arms it again.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
