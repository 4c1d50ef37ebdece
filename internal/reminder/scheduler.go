package reminder

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Scheduler maps reminder identifiers to cron entries. It is safe for use
// from cron jobs and callers at the same time.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	fire    func(habitID string)
	running bool
}

// NewScheduler builds a scheduler whose jobs call fire with the habit ID.
// Cron specs are read in loc.
func NewScheduler(loc *time.Location, fire func(habitID string)) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		entries: make(map[string]cron.EntryID),
		fire:    fire,
	}
}

// Schedule replaces the habit's cron entries with those for n.
// Archived habits end up with none.
func (s *Scheduler) Schedule(h models.Habit, n models.HabitNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(h.ID)
	if h.IsArchived() {
		return nil
	}

	jobs, err := Jobs(h, n)
	if err != nil {
		return err
	}
	habitID := h.ID
	for _, job := range jobs {
		id, err := s.cron.AddFunc(job.Spec, func() { s.fire(habitID) })
		if err != nil {
			s.cancelLocked(h.ID)
			return fmt.Errorf("failed to schedule %s: %w", job.ID, err)
		}
		s.entries[job.ID] = id
		logger.Debug("Scheduled reminder", "job", job.ID, "spec", job.Spec)
	}
	return nil
}

// Cancel removes every entry belonging to the habit.
func (s *Scheduler) Cancel(habitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(habitID)
}

func (s *Scheduler) cancelLocked(habitID string) {
	for jobID, entryID := range s.entries {
		if HabitIDOf(jobID) == habitID {
			s.cron.Remove(entryID)
			delete(s.entries, jobID)
		}
	}
}

// Reload drops every entry and schedules the given reminders afresh.
// Reminders whose habit is missing are skipped.
func (s *Scheduler) Reload(habits []models.Habit, notifications []models.HabitNotification) error {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	s.mu.Lock()
	for jobID, entryID := range s.entries {
		s.cron.Remove(entryID)
		delete(s.entries, jobID)
	}
	s.mu.Unlock()

	var firstErr error
	for _, n := range notifications {
		h, ok := byID[n.HabitID]
		if !ok {
			continue
		}
		if err := s.Schedule(h, n); err != nil {
			logger.Warn("Skipping reminder", "habit", h.Title, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Identifiers returns the scheduled job identifiers in sorted order.
func (s *Scheduler) Identifiers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Next returns the next activation of a job, if it is scheduled.
func (s *Scheduler) Next(jobID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entryID, ok := s.entries[jobID]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

// AddFunc registers a job that is not tied to a habit.
func (s *Scheduler) AddFunc(spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.cron.AddFunc(spec, fn)
	return err
}

// SetLocation swaps in a cron runner reading specs in loc. Entries are
// dropped, so reload afterwards. A running scheduler cannot be changed.
func (s *Scheduler) SetLocation(loc *time.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("cannot change the location of a running scheduler")
	}
	if loc == nil {
		loc = time.Local
	}
	s.cron = cron.New(cron.WithLocation(loc))
	s.entries = make(map[string]cron.EntryID)
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.cron.Start()
}

// Running reports whether Start was called without a later Stop.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop halts the cron runner and returns a context that is done once
// running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return s.cron.Stop()
}
