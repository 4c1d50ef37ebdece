package habits

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	ctx := &cli.Context{Container: app.New(store, nil), Out: out}
	return ctx, out
}

func addHabit(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	cmd := &HabitAddCmd{Title: title, Category: "health"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	goal := 15
	cmd := &HabitAddCmd{
		Title:           "Stretch",
		Category:        "fitness",
		Goal:            &goal,
		RecurrenceFlags: RecurrenceFlags{Weekly: "mon,wed,fri"},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if !strings.Contains(out.String(), "weekly: mon, wed, fri") {
		t.Errorf("unexpected output: %q", out.String())
	}

	h, err := ctx.Store.GetHabitByTitle("stretch")
	if err != nil {
		t.Fatalf("habit not stored: %v", err)
	}
	if h.GoalMinutes == nil || *h.GoalMinutes != 15 {
		t.Errorf("goal = %v, want 15", h.GoalMinutes)
	}
	if len(h.Recurrence.Weekdays) != 3 {
		t.Errorf("weekdays = %v", h.Recurrence.Weekdays)
	}
}

func TestHabitAddCmd_DefaultsToDaily(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Water")

	h, err := ctx.Store.GetHabitByTitle("Water")
	if err != nil {
		t.Fatal(err)
	}
	if h.Recurrence.String() != "Daily" {
		t.Errorf("recurrence = %s, want Daily", h.Recurrence.String())
	}
}

func TestHabitAddCmd_Errors(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Water")

	tests := []struct {
		name string
		cmd  HabitAddCmd
		kind error
	}{
		{"duplicate", HabitAddCmd{Title: "WATER", Category: "health"}, apperr.ErrConflict},
		{"bad category", HabitAddCmd{Title: "Knit", Category: "crafts"}, apperr.ErrInvalid},
		{"bad weekday", HabitAddCmd{Title: "Knit", Category: "health", RecurrenceFlags: RecurrenceFlags{Weekly: "funday"}}, apperr.ErrInvalid},
		{"negative interval", HabitAddCmd{Title: "Knit", Category: "health", RecurrenceFlags: RecurrenceFlags{Every: -1}}, apperr.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if !apperr.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Water")

	title := "Drink water"
	cmd := &HabitEditCmd{Habit: "water", Title: &title, RecurrenceFlags: RecurrenceFlags{Every: 2}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}
	h, err := ctx.Store.GetHabitByTitle(title)
	if err != nil {
		t.Fatal(err)
	}
	if h.Recurrence.IntervalDays != 2 {
		t.Errorf("interval = %d, want 2", h.Recurrence.IntervalDays)
	}

	out.Reset()
	if err := (&HabitEditCmd{Habit: title}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No habits found") {
		t.Errorf("unexpected output: %q", out.String())
	}

	addHabit(t, ctx, "Water")
	addHabit(t, ctx, "Floss")
	if err := (&HabitArchiveCmd{Habit: "Floss"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Water") || strings.Contains(out.String(), "Floss") {
		t.Errorf("active list = %q", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{Archived: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Floss [ARCHIVED]") {
		t.Errorf("archived list = %q", out.String())
	}
}

func TestHabitShowCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Water")
	if err := (&DoneCmd{Habit: "Water"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&HabitShowCmd{Habit: "Water"}).Run(ctx); err != nil {
		t.Fatalf("habit show failed: %v", err)
	}
	for _, want := range []string{"Category:   health", "Reminder:   none", "1 current"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := (&HabitShowCmd{Habit: "nope"}).Run(ctx); !apperr.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestHabitArchiveCmd_Unarchive(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Water")

	if err := (&HabitArchiveCmd{Habit: "Water"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&HabitArchiveCmd{Habit: "Water", Unarchive: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	h, _ := ctx.Store.GetHabitByTitle("Water")
	if h.IsArchived() {
		t.Error("habit still archived")
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Water")
	if err := (&DoneCmd{Habit: "Water", Duration: 5}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	// declined at the prompt
	ctx.In = strings.NewReader("n\n")
	if err := (&HabitDeleteCmd{Habit: "Water"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.GetHabitByTitle("Water"); err != nil {
		t.Fatalf("habit removed despite declining: %v", err)
	}

	out.Reset()
	if err := (&HabitDeleteCmd{Habit: "Water", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}
	if _, err := ctx.Store.GetHabitByTitle("Water"); !apperr.Is(err, apperr.ErrNotFound) {
		t.Errorf("habit still present: %v", err)
	}
	records, err := ctx.Store.GetAllRecords()
	if err != nil || len(records) != 0 {
		t.Errorf("records after delete = %v, %v", records, err)
	}

	mgr, ok := ctx.BackupManager()
	if !ok {
		t.Fatal("expected a backup manager for SQLite")
	}
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 1 {
		t.Errorf("expected one automatic backup, got %d (%v)", len(backups), err)
	}
}

func TestTodayDoneUndo(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Water")
	addHabit(t, ctx, "Floss")

	if err := (&DoneCmd{Habit: "water", Duration: 90, Note: "big bottle"}).Run(ctx); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if !strings.Contains(out.String(), "(1h 30m)") {
		t.Errorf("done output = %q", out.String())
	}
	if err := (&DoneCmd{Habit: "water"}).Run(ctx); !apperr.Is(err, apperr.ErrConflict) {
		t.Errorf("second done error = %v, want conflict", err)
	}

	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[x] Water") || !strings.Contains(out.String(), "[ ] Floss") {
		t.Errorf("today output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Completed: 1/2") {
		t.Errorf("today summary = %q", out.String())
	}

	if err := (&UndoCmd{Habit: "Water"}).Run(ctx); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if err := (&UndoCmd{Habit: "Water"}).Run(ctx); !apperr.Is(err, apperr.ErrNotFound) {
		t.Errorf("second undo error = %v, want not found", err)
	}
}

func TestRecordCmds(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Water")
	if err := (&DoneCmd{Habit: "Water", Duration: 10}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	records, err := ctx.Store.GetAllRecords()
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %v, %v", records, err)
	}
	id := records[0].ID

	out.Reset()
	if err := (&RecordListCmd{Habit: "Water", Days: 7}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "1 completion(s), 10m in total") {
		t.Errorf("record list = %q", out.String())
	}

	d := 25
	if err := (&RecordEditCmd{ID: id, Duration: &d}).Run(ctx); err != nil {
		t.Fatalf("record edit failed: %v", err)
	}
	r, _ := ctx.Store.GetRecord(id)
	if r.DurationMin != 25 {
		t.Errorf("duration = %d, want 25", r.DurationMin)
	}

	if err := (&RecordDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&RecordDeleteCmd{ID: id}).Run(ctx); !apperr.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}
