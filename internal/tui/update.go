package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/today"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, status line and help take the remaining rows
		h, v := docStyle.GetFrameSize()
		m.todayModel.SetSize(msg.Width-h, msg.Height-v-4)
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-4)
		m.statsModel.SetSize(msg.Width-h, msg.Height-v-4)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - h)
		}
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete, StateConfirmArchive:
		return m.updateConfirm(msg)
	}

	if handled, cmd := m.handleComponentMessage(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh) && m.state == StateStats:
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case StateToday:
		return m.todayModel.Filtering()
	case StateHabits:
		return m.habitsModel.Filtering()
	}
	return false
}

// handleComponentMessage turns the messages emitted by the tab components
// into service calls.
func (m *Model) handleComponentMessage(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case today.AddHabitMsg, habits.AddHabitMsg:
		m.previousState = m.state
		m.habitForm = &HabitFormModel{Category: "health", Recurrence: constants.RecurrenceDaily}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return true, m.form.Init()

	case today.MarkHabitMsg:
		_, h, err := m.app.Records.Complete(msg.ID, service.CompleteInput{})
		m.report(err, "Completed %s", h.Title)
		return true, nil

	case today.UnmarkHabitMsg:
		_, err := m.app.Records.Uncomplete(msg.ID, "")
		m.report(err, "Removed today's completion")
		return true, nil

	case today.DeleteHabitMsg:
		m.askConfirm(StateConfirmDelete, msg.ID)
		return true, nil

	case habits.DeleteHabitMsg:
		m.askConfirm(StateConfirmDelete, msg.ID)
		return true, nil

	case habits.ArchiveHabitMsg:
		m.askConfirm(StateConfirmArchive, msg.ID)
		return true, nil

	case habits.UnarchiveHabitMsg:
		h, err := m.app.Habits.Unarchive(msg.ID)
		m.report(err, "Unarchived %s", h.Title)
		return true, nil
	}
	return false, nil
}

func (m *Model) askConfirm(state SessionState, habitID string) {
	h, err := m.app.Habits.Get(habitID)
	if err != nil {
		m.fail(err)
		return
	}
	m.previousState = m.state
	m.pendingID, m.pendingTitle = h.ID, h.Title
	m.state = state
}

// report shows the outcome of an action and reloads the tabs on success.
func (m *Model) report(err error, format string, args ...any) {
	if err != nil {
		m.fail(err)
		return
	}
	m.status = fmt.Sprintf(format, args...)
	m.refresh()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if m.state == StateConfirmDelete {
			_, err := m.app.Habits.Delete(m.pendingID)
			m.report(err, "Deleted %s", m.pendingTitle)
		} else {
			_, err := m.app.Habits.Archive(m.pendingID)
			m.report(err, "Archived %s", m.pendingTitle)
		}
	case key.Matches(keyMsg, m.keys.Cancel):
	default:
		return m, nil
	}
	m.pendingID, m.pendingTitle = "", ""
	m.state = m.previousState
	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		in, err := m.habitForm.Input()
		if err == nil {
			_, err = m.app.Habits.Create(in)
		}
		m.report(err, "Added %s", m.habitForm.Title)
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}
