package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/utils"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	ID string
}

type UnmarkHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	service.TodayItem
}

func (i Item) Title() string {
	if i.Done() {
		return "✓ " + i.Habit.Title
	}
	return "○ " + i.Habit.Title
}

func (i Item) Description() string {
	desc := string(i.Habit.Category)
	if i.Habit.GoalMinutes != nil {
		desc += ", goal " + utils.FormatMinutes(*i.Habit.GoalMinutes)
	}
	if !i.Done() {
		return desc + ", not completed yet"
	}
	done := fmt.Sprintf("%s, done at %s", desc, i.Record.CompletedAt.Format("15:04"))
	if i.Record.DurationMin > 0 {
		done += " for " + utils.FormatMinutes(i.Record.DurationMin)
	}
	return done
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add    key.Binding
	Mark   key.Binding
	Unmark key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark done"),
		),
		Unmark: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmark"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []service.TodayItem, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	bindings := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Unmark, keys.Delete}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	return Model{list: l, keys: keys}
}

func toListItems(items []service.TodayItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = Item{it}
	}
	return out
}

func (m *Model) SetItems(items []service.TodayItem) {
	m.list.SetItems(toListItems(items))
}

// Progress returns how many of today's habits are done.
func (m Model) Progress() (done, total int) {
	for _, it := range m.list.Items() {
		if it.(Item).Done() {
			done++
		}
	}
	return done, len(m.list.Items())
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		i, selected := m.list.SelectedItem().(Item)
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Mark):
			if selected && !i.Done() {
				return m, func() tea.Msg { return MarkHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Unmark):
			if selected && i.Done() {
				return m, func() tea.Msg { return UnmarkHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if selected {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  Nothing scheduled today.\n  Press 'a' to add a habit."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
