package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = docStyle.Render(m.todayModel.View())
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateStats:
		content = docStyle.Render(m.statsModel.View())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirm(
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its history?", m.pendingTitle)),
			"This cannot be undone.",
		)
	case StateConfirmArchive:
		content = m.viewConfirm(
			warningStyle.Render(fmt.Sprintf("Archive %q?", m.pendingTitle)),
			"Its reminder is paused until you unarchive it.",
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		warningStyle.Render(m.status),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Habits", "Stats"} {
		if m.tab() == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	done, total := m.todayModel.Progress()
	tabs = append(tabs, progressStyle.Render(fmt.Sprintf("%d/%d done today", done, total)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// tab is the tab to highlight, which stays put while a dialog is open.
func (m Model) tab() SessionState {
	if m.state < tabCount {
		return m.state
	}
	return m.previousState
}

func (m Model) viewConfirm(question, note string) string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			question,
			note,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
