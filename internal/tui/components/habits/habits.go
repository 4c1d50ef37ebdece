package habits

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
)

type AddHabitMsg struct{}

type ArchiveHabitMsg struct {
	ID string
}

type UnarchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
}

func (i Item) Title() string {
	if i.Habit.IsArchived() {
		return "[ARCHIVED] " + i.Habit.Title
	}
	return i.Habit.Title
}

func (i Item) Description() string {
	desc := string(i.Habit.Category) + ", " + strings.ToLower(i.Habit.Recurrence.String())
	if i.Habit.GoalMinutes != nil {
		desc += ", goal " + i.Habit.GoalLabel()
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add     key.Binding
	Archive key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive/unarchive"),
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

func New(habits []models.Habit, width, height int) Model {
	l := list.New(toListItems(habits), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	bindings := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Archive, keys.Delete}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	return Model{list: l, keys: keys}
}

func toListItems(habits []models.Habit) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h}
	}
	return items
}

func (m *Model) SetHabits(habits []models.Habit) {
	m.list.SetItems(toListItems(habits))
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
		case key.Matches(msg, m.keys.Archive):
			if !selected {
				return m, nil
			}
			if i.Habit.IsArchived() {
				return m, func() tea.Msg { return UnarchiveHabitMsg{ID: i.Habit.ID} }
			}
			return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Habit.ID} }
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
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
