package reminder

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

// Daemon keeps a Scheduler in sync with the store while it runs.
type Daemon struct {
	store     storage.Provider
	scheduler *Scheduler

	mu          sync.Mutex
	reloadAdded bool
}

func NewDaemon(store storage.Provider, scheduler *Scheduler) *Daemon {
	return &Daemon{store: store, scheduler: scheduler}
}

// Reload rebuilds the schedule from the active habits and their reminders.
func (d *Daemon) Reload() error {
	habits, err := d.store.GetAllHabits(false)
	if err != nil {
		return err
	}
	notifications, err := d.store.GetAllNotifications()
	if err != nil {
		return err
	}
	return d.scheduler.Reload(habits, notifications)
}

// Start schedules every reminder, adds the periodic reload that picks up
// edits from other processes and starts the scheduler without blocking.
// Starting a running daemon does nothing.
func (d *Daemon) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scheduler.Running() {
		return nil
	}

	if err := d.Reload(); err != nil {
		logger.Warn("Initial reminder load incomplete", "error", err)
	}
	if !d.reloadAdded {
		err := d.scheduler.AddFunc(constants.DaemonReloadSpec, func() {
			if err := d.Reload(); err != nil {
				logger.Warn("Reminder reload failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to add reload job: %w", err)
		}
		d.reloadAdded = true
	}

	d.scheduler.Start()
	logger.Info("Reminder scheduler started", "jobs", len(d.scheduler.Identifiers()))
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.scheduler.Running() {
		return
	}
	logger.Info("Stopping reminder scheduler")
	<-d.scheduler.Stop().Done()
}

// Run starts the daemon unless it already runs and blocks until ctx is
// cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}
