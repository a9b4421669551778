// Package autosave persists draft mutations after quiet periods.
//
// Typing produces a mutation per keystroke; writing the slot on every one
// would be wasteful. The scheduler debounces: a write fires only once no
// mutation has arrived for a full window, and each write carries the latest
// draft snapshot. Save failures are logged and swallowed: the in-memory
// draft stays authoritative and the user is never blocked by the slot.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/logging"
	"github.com/ronaldsalkes/cvmaster/internal/store"
)

// DefaultWindow is the quiet period after the last mutation before the slot
// is written.
const DefaultWindow = 500 * time.Millisecond

// Scheduler debounces draft writes while the wizard sits in the editable
// step range.
type Scheduler struct {
	store  store.Store
	deb    *Debouncer
	log    logging.Logger
	onSave func() // test hook, called after each completed write

	mu     sync.Mutex
	saving bool
}

// NewScheduler creates a scheduler writing through st. A non-positive window
// falls back to DefaultWindow.
func NewScheduler(st store.Store, window time.Duration, log logging.Logger) *Scheduler {
	if window <= 0 {
		window = DefaultWindow
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Scheduler{store: st, deb: NewDebouncer(window), log: log}
}

// DraftChanged notes a mutation. While step is within the editable range it
// (re)schedules a write of the given snapshot; outside that range it cancels
// any pending write instead, since control states never autosave.
func (s *Scheduler) DraftChanged(ctx context.Context, d draft.Draft, step int) {
	if !draft.IsDataStep(step) {
		if s.deb.Stop() {
			s.setSaving(false)
		}
		return
	}

	s.setSaving(true)
	s.deb.Trigger(func() {
		s.write(ctx, d)
	})
}

// Saving reports whether a write is pending or in progress.
func (s *Scheduler) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Flush forces the pending write, if any, to run now. Call it before leaving
// the editable range or exiting, so the last burst of edits is not lost to a
// still-running window.
func (s *Scheduler) Flush() {
	s.deb.Flush()
}

// Stop cancels any pending write without running it.
func (s *Scheduler) Stop() {
	if s.deb.Stop() {
		s.setSaving(false)
	}
}

func (s *Scheduler) write(ctx context.Context, d draft.Draft) {
	if err := s.store.Save(ctx, d); err != nil {
		// Never raised to the caller: the draft remains in memory.
		s.log.Error(ctx, "autosave failed", "error", err)
	}
	s.setSaving(false)
	if s.onSave != nil {
		s.onSave()
	}
}

func (s *Scheduler) setSaving(v bool) {
	s.mu.Lock()
	s.saving = v
	s.mu.Unlock()
}
