package reminders

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
)

// NotifyCmd sends the reminders due right now. It is meant to be run from
// cron or a launchd timer when the daemon is not running.
type NotifyCmd struct {
	DryRun bool `help:"Print the reminders that are due instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Dispatcher()
	if err != nil {
		return err
	}
	deliveries, err := d.DispatchDue(c.DryRun)
	if err != nil {
		return err
	}

	failed := 0
	for _, del := range deliveries {
		switch {
		case c.DryRun:
			ctx.Printf("[DryRun] %s at %s\n", del.Habit.Title, del.At.Format(constants.TimeFormat))
		case del.Err != nil:
			failed++
			ctx.Printf("Failed to send reminder for %s: %v\n", del.Habit.Title, del.Err)
		}
	}
	if c.DryRun && len(deliveries) == 0 {
		ctx.Println("No reminders due.")
	}
	if failed > 0 && failed == len(deliveries) {
		return deliveries[0].Err
	}
	return nil
}

// DaemonCmd runs the reminder scheduler in the foreground until interrupted.
type DaemonCmd struct{}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	daemon, err := ctx.Daemon()
	if err != nil {
		return err
	}
	if err := daemon.Start(); err != nil {
		return err
	}
	ctx.Printf("Reminder daemon running with %d job(s). Press Ctrl+C to stop.\n", len(ctx.Scheduler.Identifiers()))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return daemon.Run(sigCtx)
}
