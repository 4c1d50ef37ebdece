package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitFormModel struct {
	Title      string
	Category   string
	Recurrence constants.RecurrenceType
	Weekdays   string
	Interval   string
	Goal       string
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	categories := make([]huh.Option[string], len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = huh.NewOption(string(c), string(c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[constants.RecurrenceType]().
				Title("Recurrence").
				Options(
					huh.NewOption("Daily", constants.RecurrenceDaily),
					huh.NewOption("Weekly", constants.RecurrenceWeekly),
					huh.NewOption("Every N days", constants.RecurrenceNDays),
				).
				Value(&fm.Recurrence),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Weekdays (e.g. mon,wed,fri)").
				Value(&fm.Weekdays).
				Validate(func(s string) error {
					_, err := utils.ParseWeekdays(s)
					return err
				}),
		).WithHideFunc(func() bool { return fm.Recurrence != constants.RecurrenceWeekly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Every how many days").
				Value(&fm.Interval).
				Validate(positiveInt),
		).WithHideFunc(func() bool { return fm.Recurrence != constants.RecurrenceNDays }),
		huh.NewGroup(
			huh.NewInput().
				Title("Goal in minutes (optional)").
				Value(&fm.Goal).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return positiveInt(s)
				}),
		),
	)
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

// Input converts the form into a service request.
func (fm *HabitFormModel) Input() (service.HabitInput, error) {
	var (
		daily  bool
		weekly string
		every  int
	)
	switch fm.Recurrence {
	case constants.RecurrenceWeekly:
		weekly = fm.Weekdays
	case constants.RecurrenceNDays:
		every, _ = strconv.Atoi(strings.TrimSpace(fm.Interval))
	default:
		daily = true
	}
	rec, err := service.ParseRecurrence(daily, weekly, every)
	if err != nil {
		return service.HabitInput{}, err
	}

	in := service.HabitInput{Title: fm.Title, Category: fm.Category, Recurrence: rec}
	if goal := strings.TrimSpace(fm.Goal); goal != "" {
		n, err := strconv.Atoi(goal)
		if err != nil {
			return service.HabitInput{}, fmt.Errorf("goal must be a number")
		}
		in.GoalMinutes = &n
	}
	return in, nil
}
