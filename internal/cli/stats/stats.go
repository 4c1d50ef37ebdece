package stats

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/service"
	habitstats "github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/utils"
)

type StatsCmd struct {
	Overview   OverviewCmd   `cmd:"" help:"Headline numbers across all habits." default:"1"`
	Streak     StreakCmd     `cmd:"" help:"Streaks for one habit or every habit."`
	Categories CategoriesCmd `cmd:"" help:"Rank categories by completions."`
	Weekdays   WeekdaysCmd   `cmd:"" help:"Rank weekdays by completions."`
	Timeslots  TimeslotsCmd  `cmd:"" help:"Rank two-hour time slots by completions."`
	Gap        GapCmd        `cmd:"" help:"Longest stretch without a completion."`
	Weekly     WeeklyCmd     `cmd:"" help:"Adherence for one week."`
	Durations  DurationsCmd  `cmd:"" help:"Time invested per habit."`
}

type OverviewCmd struct{}

func (c *OverviewCmd) Run(ctx *cli.Context) error {
	ov, err := ctx.Stats.Overview()
	if err != nil {
		return err
	}
	if ov.TotalRecords == 0 {
		ctx.Println("No completions recorded yet.")
		return nil
	}

	ctx.Println("Overview")
	ctx.Printf("  Completions:     %d\n", ov.TotalRecords)
	ctx.Printf("  Time invested:   %s\n", utils.FormatMinutes(ov.TotalMinutes))
	ctx.Printf("  Active days:     %d\n", ov.ActiveDays)
	ctx.Printf("  Current streak:  %d\n", ov.CurrentStreak)
	ctx.Printf("  Longest streak:  %d\n", ov.LongestStreak)
	if ov.FavoriteCategory != nil {
		ctx.Printf("  Top category:    %s (%d)\n", ov.FavoriteCategory.Key, ov.FavoriteCategory.Count)
	}
	if ov.BusiestWeekday != nil {
		ctx.Printf("  Busiest weekday: %s (%d)\n", ov.BusiestWeekday.Key, ov.BusiestWeekday.Count)
	}
	if ov.BusiestTimeSlot != nil {
		ctx.Printf("  Busiest time:    %s (%d)\n", ov.BusiestTimeSlot.Key, ov.BusiestTimeSlot.Count)
	}
	return nil
}

type StreakCmd struct {
	Habit string `arg:"" optional:"" help:"Habit title or ID (default: every active habit)."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	refs := []string{c.Habit}
	if c.Habit == "" {
		habits, err := ctx.Habits.List(false)
		if err != nil {
			return err
		}
		if len(habits) == 0 {
			ctx.Println("No habits found.")
			return nil
		}
		refs = refs[:0]
		for _, h := range habits {
			refs = append(refs, h.ID)
		}
	}

	ctx.Printf("%-24s %8s %8s %12s\n", "Habit", "Current", "Longest", "Active days")
	ctx.Println(strings.Repeat("-", 55))
	for _, ref := range refs {
		s, err := ctx.Stats.Streak(ref)
		if err != nil {
			return err
		}
		ctx.Printf("%-24s %8d %8d %12d\n", cli.Truncate(s.Habit.Title, 24), s.Current, s.Result.Longest, s.Result.ActiveDays)
	}
	return nil
}

type rankFlags struct {
	Top int  `help:"How many entries to show (default: the top_n setting)." short:"n" xor:"limit"`
	All bool `help:"Show the count of every bucket." xor:"limit"`
}

func (f rankFlags) limit() int {
	if f.All {
		return -1
	}
	return f.Top
}

func printRanking[K comparable](ctx *cli.Context, title string, entries []habitstats.Entry[K]) {
	if len(entries) == 0 {
		ctx.Println("No completions recorded yet.")
		return
	}
	ctx.Println(title)
	for i, e := range entries {
		ctx.Printf("  %d. %-14s %d\n", i+1, fmt.Sprint(e.Key), e.Count)
	}
}

type CategoriesCmd struct {
	rankFlags
	Habits bool `help:"Count habits per category instead of completions."`
}

func (c *CategoriesCmd) Run(ctx *cli.Context) error {
	if c.Habits {
		entries, err := ctx.Stats.HabitCategories(c.limit())
		if err != nil {
			return err
		}
		printRanking(ctx, "Categories by habit count", entries)
		return nil
	}
	entries, err := ctx.Stats.Categories(c.limit())
	if err != nil {
		return err
	}
	printRanking(ctx, "Categories by completions", entries)
	return nil
}

type WeekdaysCmd struct {
	rankFlags
}

func (c *WeekdaysCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Stats.Weekdays(c.limit())
	if err != nil {
		return err
	}
	printRanking(ctx, "Weekdays by completions", entries)
	return nil
}

type TimeslotsCmd struct {
	rankFlags
}

func (c *TimeslotsCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Stats.TimeSlots(c.limit())
	if err != nil {
		return err
	}
	printRanking(ctx, "Time slots by completions", entries)
	return nil
}

type GapCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Days  int    `help:"Window size in days, ending today." default:"30"`
	From  string `help:"Window start (YYYY-MM-DD); use with --to instead of --days."`
	To    string `help:"Window end (YYYY-MM-DD)."`
}

func (c *GapCmd) Run(ctx *cli.Context) error {
	var (
		report service.GapReport
		err    error
	)
	if c.From != "" || c.To != "" {
		report, err = ctx.Stats.GapBetween(c.Habit, c.From, c.To)
	} else {
		report, err = ctx.Stats.Gap(c.Habit, c.Days)
	}
	if err != nil {
		return err
	}

	window := fmt.Sprintf("%s to %s", report.From.Format(constants.DateFormat), report.To.Format(constants.DateFormat))
	if !report.Found {
		ctx.Printf("%s: no gap between completions from %s\n", report.Habit.Title, window)
		return nil
	}
	ctx.Printf("%s: longest gap from %s is %d day(s), %s to %s\n",
		report.Habit.Title, window, report.Gap.Days,
		report.Gap.Start.Format(constants.DateFormat), report.Gap.End.Format(constants.DateFormat))
	return nil
}

type WeeklyCmd struct {
	Date string `help:"Any date in the week (default: this week)."`
}

func (c *WeeklyCmd) Run(ctx *cli.Context) error {
	week, err := ctx.Stats.Weekly(c.Date)
	if err != nil {
		return err
	}
	ctx.Printf("Week of %s to %s\n\n", week.Start.Format(constants.DateFormat), week.End.Format(constants.DateFormat))
	if len(week.Habits) == 0 {
		ctx.Println("No active habits.")
		return nil
	}
	ctx.Printf("%-24s %6s %6s %6s %9s\n", "Habit", "Done", "Due", "Rate", "Time")
	ctx.Println(strings.Repeat("-", 55))
	for _, h := range week.Habits {
		ctx.Printf("%-24s %6d %6d %5.0f%% %9s\n", cli.Truncate(h.Title, 24), h.Done, h.Due, h.Rate*100, utils.FormatMinutes(h.Minutes))
	}
	ctx.Printf("\nOverall: %d/%d (%.0f%%)\n", week.Done, week.Due, week.Rate*100)
	return nil
}

type DurationsCmd struct {
	Days int `help:"Only count the last N days (0 for all)." default:"0"`
}

func (c *DurationsCmd) Run(ctx *cli.Context) error {
	durations, err := ctx.Stats.Durations(c.Days)
	if err != nil {
		return err
	}
	if len(durations) == 0 {
		ctx.Println("No active habits.")
		return nil
	}
	ctx.Printf("%-24s %9s %9s %9s %10s\n", "Habit", "Sessions", "Total", "Average", "Goals met")
	ctx.Println(strings.Repeat("-", 66))
	for _, d := range durations {
		goals := "-"
		if d.GoalMinutes != nil {
			goals = fmt.Sprintf("%d/%d", d.GoalsMet, d.Sessions)
		}
		ctx.Printf("%-24s %9d %9s %8.0fm %10s\n",
			cli.Truncate(d.Title, 24), d.Sessions, utils.FormatMinutes(d.TotalMinutes), d.AverageMinutes(), goals)
	}
	return nil
}
