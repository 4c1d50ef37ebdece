package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/app"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/stats"
	"github.com/julianstephens/habitual/internal/tui/components/today"
)

type SessionState int

// The first three states are the tabs, in display order.
const (
	StateToday SessionState = iota
	StateHabits
	StateStats
	StateAddHabit
	StateConfirmDelete
	StateConfirmArchive
)

const tabCount = 3

type Model struct {
	app           *app.Container
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	todayModel    today.Model
	habitsModel   habits.Model
	statsModel    stats.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	pendingID     string // habit awaiting delete or archive confirmation
	pendingTitle  string
	status        string // result or error of the last action
	quitting      bool
	width         int
	height        int
}

func NewModel(c *app.Container) Model {
	m := Model{
		app:         c,
		state:       StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		todayModel:  today.New(nil, 0, 0),
		habitsModel: habits.New(nil, 0, 0),
		statsModel:  stats.New(stats.Data{}, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every tab from the services.
func (m *Model) refresh() {
	items, err := m.app.Habits.Today("")
	if err != nil {
		m.fail(err)
		return
	}
	m.todayModel.SetItems(items)

	all, err := m.app.Habits.List(true)
	if err != nil {
		m.fail(err)
		return
	}
	m.habitsModel.SetHabits(all)

	var data stats.Data
	if data.Overview, err = m.app.Stats.Overview(); err != nil {
		m.fail(err)
		return
	}
	if data.Week, err = m.app.Stats.Weekly(""); err != nil {
		m.fail(err)
		return
	}
	for _, h := range all {
		if h.IsArchived() {
			continue
		}
		s, err := m.app.Stats.Streak(h.ID)
		if err != nil {
			m.fail(err)
			return
		}
		data.Streaks = append(data.Streaks, s)
	}
	m.statsModel.SetData(data)
}

func (m *Model) fail(err error) {
	logger.Warn("TUI action failed", "error", err)
	m.status = apperr.UserMessage(err)
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}
