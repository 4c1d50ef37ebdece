package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/service"
	habitstats "github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Data is everything the stats tab shows.
type Data struct {
	Overview habitstats.Overview
	Streaks  []service.HabitStreak
	Week     habitstats.WeekSummary
}

type Model struct {
	viewport viewport.Model
	data     Data
}

func New(data Data, width, height int) Model {
	m := Model{viewport: viewport.New(width, height), data: data}
	m.viewport.SetContent(render(data))
	return m
}

func (m *Model) SetData(data Data) {
	m.data = data
	m.viewport.SetContent(render(data))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

func render(d Data) string {
	var b strings.Builder
	ov := d.Overview

	b.WriteString(headingStyle.Render("Overview") + "\n")
	if ov.TotalRecords == 0 {
		b.WriteString("  No completions recorded yet.\n")
	} else {
		row := func(label, value string) {
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), value)
		}
		row("Completions", fmt.Sprint(ov.TotalRecords))
		row("Time invested", utils.FormatMinutes(ov.TotalMinutes))
		row("Active days", fmt.Sprint(ov.ActiveDays))
		row("Current streak", fmt.Sprint(ov.CurrentStreak))
		row("Longest streak", fmt.Sprint(ov.LongestStreak))
		if ov.FavoriteCategory != nil {
			row("Top category", fmt.Sprintf("%s (%d)", ov.FavoriteCategory.Key, ov.FavoriteCategory.Count))
		}
		if ov.BusiestWeekday != nil {
			row("Busiest weekday", fmt.Sprintf("%s (%d)", ov.BusiestWeekday.Key, ov.BusiestWeekday.Count))
		}
		if ov.BusiestTimeSlot != nil {
			row("Busiest time", fmt.Sprintf("%s (%d)", ov.BusiestTimeSlot.Key, ov.BusiestTimeSlot.Count))
		}
	}

	if len(d.Week.Habits) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headingStyle.Render(fmt.Sprintf("This week (%d/%d, %.0f%%)", d.Week.Done, d.Week.Due, d.Week.Rate*100)))
		for _, h := range d.Week.Habits {
			fmt.Fprintf(&b, "  %-24s %d/%d\n", truncate(h.Title, 24), h.Done, h.Due)
		}
	}

	if len(d.Streaks) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headingStyle.Render("Streaks"))
		fmt.Fprintf(&b, "  %s\n", labelStyle.Render(fmt.Sprintf("%-24s %8s %8s %7s", "Habit", "Current", "Longest", "Active")))
		for _, s := range d.Streaks {
			fmt.Fprintf(&b, "  %-24s %8d %8d %7d\n", truncate(s.Habit.Title, 24), s.Current, s.Result.Longest, s.Result.ActiveDays)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
