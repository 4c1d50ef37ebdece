package reminders

import (
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
)

type RemindCmd struct {
	Set   RemindSetCmd   `cmd:"" help:"Set or move a habit's daily reminder."`
	Clear RemindClearCmd `cmd:"" help:"Remove a habit's reminder."`
	List  RemindListCmd  `cmd:"" help:"List reminders." default:"1"`
}

type RemindSetCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Time  string `arg:"" help:"Time of day (HH:MM)."`
}

func (c *RemindSetCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Reminders.Set(c.Habit, c.Time)
	if err != nil {
		return err
	}
	h, err := ctx.Habits.Get(n.HabitID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Reminder for %s set to %s (%s)\n", h.Title, n.Time, strings.ToLower(h.Recurrence.String()))
	if h.IsArchived() {
		ctx.Println("  The habit is archived; the reminder stays paused until it is unarchived.")
	}
	return nil
}

type RemindClearCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *RemindClearCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Reminders.Clear(c.Habit)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Reminder for %s removed\n", h.Title)
	return nil
}

type RemindListCmd struct {
	Jobs bool `help:"Show the cron jobs each reminder expands to."`
}

func (c *RemindListCmd) Run(ctx *cli.Context) error {
	views, err := ctx.Reminders.List()
	if err != nil {
		return err
	}
	if len(views) == 0 {
		ctx.Println("No reminders configured.")
		return nil
	}

	loc := ctx.Location()
	ctx.Printf("%-24s %-6s %-22s %-17s\n", "Habit", "Time", "Recurrence", "Last sent")
	ctx.Println(strings.Repeat("-", 72))
	for _, v := range views {
		title := cli.Truncate(v.Habit.Title, 24)
		if v.Habit.IsArchived() {
			title = cli.Truncate(v.Habit.Title, 13) + " [ARCHIVED]"
		}
		ctx.Printf("%-24s %-6s %-22s %-17s\n",
			title, v.Notification.Time, cli.Truncate(v.Habit.Recurrence.String(), 22), v.LastSentLabel(loc))
		if c.Jobs {
			for _, j := range v.Jobs {
				ctx.Printf("    %-48s %s\n", j.ID, j.Spec)
			}
		}
	}
	return nil
}
