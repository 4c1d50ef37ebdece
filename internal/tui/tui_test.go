package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func setupModel(t *testing.T, titles ...string) (Model, *app.Container) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	c := app.New(store, nil)
	for _, title := range titles {
		_, err := c.Habits.Create(service.HabitInput{
			Title:      title,
			Category:   "health",
			Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
		})
		if err != nil {
			t.Fatalf("create habit: %v", err)
		}
	}

	m := NewModel(c)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), c
}

// send delivers a message and feeds back whatever message its command yields.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		if _, isBatch := out.(tea.BatchMsg); !isBatch {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabsCycle(t *testing.T) {
	m, _ := setupModel(t)
	if m.state != StateToday {
		t.Fatalf("initial state = %v", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateHabits {
		t.Errorf("after tab state = %v, want habits", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateStats {
		t.Errorf("shift+tab should wrap to stats, got %v", m.state)
	}
}

func TestMarkAndUnmark(t *testing.T) {
	m, c := setupModel(t, "Floss")

	m = send(t, m, runes("m"))
	if done, total := m.todayModel.Progress(); done != 1 || total != 1 {
		t.Fatalf("progress after mark = %d/%d", done, total)
	}
	records, _ := c.Store.GetAllRecords()
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if !strings.Contains(m.View(), "1/1 done today") {
		t.Error("tab bar should show progress")
	}

	m = send(t, m, runes("u"))
	if done, _ := m.todayModel.Progress(); done != 0 {
		t.Errorf("progress after unmark = %d", done)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, c := setupModel(t, "Floss")

	m = send(t, m, runes("d"))
	if m.state != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.state)
	}
	m = send(t, m, runes("n"))
	if m.state != StateToday {
		t.Errorf("cancel should return to today, got %v", m.state)
	}
	if habits, _ := c.Store.GetAllHabits(true); len(habits) != 1 {
		t.Fatal("habit deleted without confirmation")
	}

	m = send(t, m, runes("d"))
	m = send(t, m, runes("y"))
	if habits, _ := c.Store.GetAllHabits(true); len(habits) != 0 {
		t.Errorf("habit not deleted after confirmation")
	}
	if !strings.Contains(m.status, "Deleted Floss") {
		t.Errorf("status = %q", m.status)
	}
}

func TestArchiveFromHabitsTab(t *testing.T) {
	m, c := setupModel(t, "Floss")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = send(t, m, runes("x"))
	if m.state != StateConfirmArchive {
		t.Fatalf("state = %v, want confirm archive", m.state)
	}
	m = send(t, m, runes("y"))
	if m.state != StateHabits {
		t.Errorf("state after confirm = %v, want habits", m.state)
	}
	h, err := c.Store.GetHabitByTitle("Floss")
	if err != nil || !h.IsArchived() {
		t.Fatalf("habit not archived: %+v, %v", h, err)
	}
	if _, total := m.todayModel.Progress(); total != 0 {
		t.Error("archived habits are not due today")
	}

	// x on an archived habit unarchives without asking
	m = send(t, m, runes("x"))
	h, _ = c.Store.GetHabitByTitle("Floss")
	if h.IsArchived() {
		t.Error("habit still archived")
	}
}

func TestAddHabitFormInput(t *testing.T) {
	m, _ := setupModel(t)
	m = send(t, m, runes("a"))
	if m.state != StateAddHabit || m.form == nil {
		t.Fatalf("state = %v, want add habit form", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateToday {
		t.Errorf("esc should close the form, got %v", m.state)
	}

	fm := &HabitFormModel{Title: "Walk", Category: "fitness", Recurrence: constants.RecurrenceWeekly, Weekdays: "tue,sat", Goal: "20"}
	in, err := fm.Input()
	if err != nil {
		t.Fatalf("Input() error: %v", err)
	}
	if len(in.Recurrence.Weekdays) != 2 || in.GoalMinutes == nil || *in.GoalMinutes != 20 {
		t.Errorf("unexpected input: %+v", in)
	}

	bad := &HabitFormModel{Title: "Walk", Category: "fitness", Recurrence: constants.RecurrenceNDays, Interval: "0"}
	if _, err := bad.Input(); err == nil {
		t.Error("expected an error for a zero interval")
	}
}

func TestErrorsShowInStatus(t *testing.T) {
	m, c := setupModel(t, "Floss")
	if _, _, err := c.Records.Complete("Floss", service.CompleteInput{}); err != nil {
		t.Fatal(err)
	}
	// the list still shows Floss as open, so m goes through to the service
	m.todayModel.SetItems([]service.TodayItem{{Habit: mustHabit(t, c, "Floss")}})
	m = send(t, m, runes("m"))
	if !strings.HasPrefix(m.status, "Conflict:") {
		t.Errorf("status = %q, want a conflict", m.status)
	}
}

func mustHabit(t *testing.T, c *app.Container, title string) models.Habit {
	t.Helper()
	h, err := c.Habits.Get(title)
	if err != nil {
		t.Fatal(err)
	}
	return h
}
