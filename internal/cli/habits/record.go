package habits

import (
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/utils"
)

type RecordCmd struct {
	List   RecordListCmd   `cmd:"" help:"List a habit's completions."`
	Edit   RecordEditCmd   `cmd:"" help:"Edit a completion."`
	Delete RecordDeleteCmd `cmd:"" help:"Delete a completion."`
}

type RecordListCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Days  int    `help:"Only show the last N days (0 for all)." default:"30"`
}

func (c *RecordListCmd) Run(ctx *cli.Context) error {
	records, h, err := ctx.Records.List(c.Habit, c.Days)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		ctx.Printf("No completions recorded for %s.\n", h.Title)
		return nil
	}

	loc := ctx.Location()
	total := 0
	ctx.Printf("%-36s %-16s %-9s %s\n", "ID", "Completed", "Duration", "Note")
	ctx.Println(strings.Repeat("-", 80))
	for _, r := range records {
		duration := "-"
		if r.DurationMin > 0 {
			duration = utils.FormatMinutes(r.DurationMin)
		}
		total += r.DurationMin
		ctx.Printf("%-36s %-16s %-9s %s\n",
			r.ID, r.CompletedAt.In(loc).Format(constants.DateFormat+" "+constants.TimeFormat), duration, cli.Truncate(r.Note, 30))
	}
	ctx.Printf("\n%d completion(s), %s in total\n", len(records), utils.FormatMinutes(total))
	return nil
}

type RecordEditCmd struct {
	ID       string  `arg:"" help:"Record ID."`
	Date     *string `help:"New date (YYYY-MM-DD)."`
	At       *string `help:"New time (HH:MM)."`
	Duration *int    `help:"New duration in minutes." short:"d"`
	Note     *string `help:"New note."`
}

func (c *RecordEditCmd) Run(ctx *cli.Context) error {
	upd := service.RecordUpdate{Date: c.Date, At: c.At, DurationMin: c.Duration, Note: c.Note}
	if upd == (service.RecordUpdate{}) {
		ctx.Println("No changes specified.")
		return nil
	}
	r, err := ctx.Records.Edit(c.ID, upd)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated record %s (%s, %d min)\n", r.ID,
		r.CompletedAt.In(ctx.Location()).Format(constants.DateFormat+" "+constants.TimeFormat), r.DurationMin)
	return nil
}

type RecordDeleteCmd struct {
	ID string `arg:"" help:"Record ID."`
}

func (c *RecordDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Records.Delete(c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted record %s\n", c.ID)
	return nil
}
