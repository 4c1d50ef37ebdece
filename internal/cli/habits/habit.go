package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit with its streak and reminder."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive or unarchive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit with its records and reminder."`
}

// RecurrenceFlags are shared by add and edit.
type RecurrenceFlags struct {
	Daily  bool   `help:"Due every day." xor:"recurrence"`
	Weekly string `help:"Due on these weekdays, e.g. mon,wed,fri." xor:"recurrence"`
	Every  int    `help:"Due every N days starting on the creation day." xor:"recurrence"`
}

func (f RecurrenceFlags) set() bool {
	return f.Daily || f.Weekly != "" || f.Every != 0
}

func (f RecurrenceFlags) parse() (models.Recurrence, error) {
	return service.ParseRecurrence(f.Daily, f.Weekly, f.Every)
}

type HabitAddCmd struct {
	Title    string `arg:"" help:"Habit title."`
	Category string `help:"One of health, fitness, learning, mindfulness, productivity." short:"c" required:""`
	Goal     *int   `help:"Daily goal in minutes."`
	RecurrenceFlags
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	rec := models.Recurrence{Type: constants.RecurrenceDaily}
	if c.RecurrenceFlags.set() {
		var err error
		if rec, err = c.parse(); err != nil {
			return err
		}
	}

	h, err := ctx.Habits.Create(service.HabitInput{
		Title:       c.Title,
		Category:    c.Category,
		Recurrence:  rec,
		GoalMinutes: c.Goal,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added habit: %s (%s, %s)\n", h.Title, h.Category, strings.ToLower(h.Recurrence.String()))
	return nil
}

type HabitEditCmd struct {
	Habit    string  `arg:"" help:"Habit title or ID."`
	Title    *string `help:"New title."`
	Category *string `help:"New category." short:"c"`
	Goal     *int    `help:"New goal in minutes." xor:"goal"`
	NoGoal   bool    `help:"Remove the goal." xor:"goal"`
	RecurrenceFlags
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	upd := service.HabitUpdate{
		Title:       c.Title,
		Category:    c.Category,
		GoalMinutes: c.Goal,
		ClearGoal:   c.NoGoal,
	}
	if c.RecurrenceFlags.set() {
		rec, err := c.parse()
		if err != nil {
			return err
		}
		upd.Recurrence = &rec
	}
	if upd == (service.HabitUpdate{}) {
		ctx.Println("No changes specified.")
		return nil
	}

	h, err := ctx.Habits.Update(c.Habit, upd)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated habit: %s (%s, %s, goal %s)\n", h.Title, h.Category, strings.ToLower(h.Recurrence.String()), h.GoalLabel())
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Habits.List(c.Archived)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	reminders := map[string]string{}
	if notifications, err := ctx.Store.GetAllNotifications(); err == nil {
		for _, n := range notifications {
			reminders[n.HabitID] = n.Time
		}
	}

	ctx.Printf("%-24s %-13s %-22s %-8s %-8s\n", "Title", "Category", "Recurrence", "Goal", "Reminder")
	ctx.Println(strings.Repeat("-", 79))
	for _, h := range habits {
		title := cli.Truncate(h.Title, 24)
		if h.IsArchived() {
			title = cli.Truncate(h.Title, 13) + " [ARCHIVED]"
		}
		reminder := reminders[h.ID]
		if reminder == "" {
			reminder = "-"
		}
		ctx.Printf("%-24s %-13s %-22s %-8s %-8s\n",
			title, h.Category, cli.Truncate(h.Recurrence.String(), 22), h.GoalLabel(), reminder)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Habits.Get(c.Habit)
	if err != nil {
		return err
	}
	loc := ctx.Location()

	ctx.Printf("%s\n", h.Title)
	ctx.Printf("  ID:         %s\n", h.ID)
	ctx.Printf("  Category:   %s\n", h.Category)
	ctx.Printf("  Recurrence: %s\n", h.Recurrence.String())
	ctx.Printf("  Goal:       %s\n", h.GoalLabel())
	ctx.Printf("  Created:    %s\n", h.CreatedAt.In(loc).Format(constants.DateFormat))
	if h.IsArchived() {
		ctx.Printf("  Archived:   %s\n", h.ArchivedAt.In(loc).Format(constants.DateFormat))
	}

	n, err := ctx.Store.GetNotification(h.ID)
	switch {
	case err == nil:
		ctx.Printf("  Reminder:   %s\n", n.Time)
	case apperr.Is(err, apperr.ErrNotFound):
		ctx.Printf("  Reminder:   none\n")
	default:
		return err
	}

	streak, err := ctx.Stats.Streak(h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("  Streak:     %d current, %d longest, %d active days\n",
		streak.Current, streak.Result.Longest, streak.Result.ActiveDays)
	return nil
}

type HabitArchiveCmd struct {
	Habit     string `arg:"" help:"Habit title or ID."`
	Unarchive bool   `help:"Restore an archived habit."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if c.Unarchive {
		h, err := ctx.Habits.Unarchive(c.Habit)
		if err != nil {
			return err
		}
		ctx.Printf("✓ Unarchived habit: %s\n", h.Title)
		return nil
	}
	h, err := ctx.Habits.Archive(c.Habit)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Archived habit: %s\n", h.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Habits.Get(c.Habit)
	if err != nil {
		return err
	}
	if !c.Yes && !ctx.Confirm(fmt.Sprintf("Delete %q with all of its records and its reminder?", h.Title)) {
		ctx.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if _, err := ctx.Habits.Delete(h.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted habit: %s\n", h.Title)
	return nil
}
