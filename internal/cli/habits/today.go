package habits

import (
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/utils"
)

type TodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	items, err := ctx.Habits.Today(c.Date)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = time.Now().In(ctx.Location()).Format(constants.DateFormat)
	}
	if len(items) == 0 {
		ctx.Printf("No habits due on %s.\n", day)
		return nil
	}

	ctx.Printf("Habits for %s:\n\n", day)
	done := 0
	for _, it := range items {
		status := "[ ]"
		detail := ""
		if it.Done() {
			status = "[x]"
			done++
			detail = " at " + it.Record.CompletedAt.In(ctx.Location()).Format(constants.TimeFormat)
			if it.Record.DurationMin > 0 {
				detail += ", " + utils.FormatMinutes(it.Record.DurationMin)
			}
		}
		ctx.Printf("%s %s%s\n", status, it.Habit.Title, detail)
	}
	ctx.Printf("\nCompleted: %d/%d\n", done, len(items))
	return nil
}

type DoneCmd struct {
	Habit    string `arg:"" help:"Habit title or ID."`
	Date     string `help:"Date in YYYY-MM-DD format (default: today)."`
	At       string `help:"Completion time (HH:MM)."`
	Duration int    `help:"Time spent in minutes." short:"d"`
	Note     string `help:"Optional note."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	r, h, err := ctx.Records.Complete(c.Habit, service.CompleteInput{
		Date:        c.Date,
		At:          c.At,
		DurationMin: c.Duration,
		Note:        c.Note,
	})
	if err != nil {
		return err
	}
	at := r.CompletedAt.In(ctx.Location()).Format(constants.DateFormat + " " + constants.TimeFormat)
	ctx.Printf("✓ Completed %s at %s", h.Title, at)
	if r.DurationMin > 0 {
		ctx.Printf(" (%s)", utils.FormatMinutes(r.DurationMin))
	}
	ctx.Println()
	return nil
}

type UndoCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	r, err := ctx.Records.Uncomplete(c.Habit, c.Date)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Removed completion from %s\n", r.CompletedAt.In(ctx.Location()).Format(constants.DateFormat))
	return nil
}
