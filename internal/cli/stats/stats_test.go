package stats

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Container: app.New(store, nil), Out: out}, out
}

// daysAgo formats the date n days before today in the configured timezone.
func daysAgo(ctx *cli.Context, n int) string {
	return time.Now().In(ctx.Location()).AddDate(0, 0, -n).Format(constants.DateFormat)
}

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	for _, in := range []service.HabitInput{
		{Title: "Run", Category: "fitness", Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}},
		{Title: "Read", Category: "learning", Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}},
	} {
		if _, err := ctx.Habits.Create(in); err != nil {
			t.Fatalf("create %s: %v", in.Title, err)
		}
	}
	for _, c := range []struct {
		habit string
		ago   int
		mins  int
	}{
		{"Run", 9, 30},
		{"Run", 5, 45},
		{"Read", 5, 20},
	} {
		in := service.CompleteInput{Date: daysAgo(ctx, c.ago), At: "07:30", DurationMin: c.mins}
		if _, _, err := ctx.Records.Complete(c.habit, in); err != nil {
			t.Fatalf("complete %s: %v", c.habit, err)
		}
	}
}

func TestOverviewCmd_Empty(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&OverviewCmd{}).Run(ctx); err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if !strings.Contains(out.String(), "No completions recorded yet.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestOverviewCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&OverviewCmd{}).Run(ctx); err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Completions:     3", "Time invested:   1h 35m", "Active days:     2", "Top category:    fitness (2)", "06:00-08:00 (3)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestStreakCmd_AllHabits(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if !strings.Contains(out.String(), "Run") || !strings.Contains(out.String(), "Read") {
		t.Errorf("expected both habits:\n%s", out.String())
	}
}

func TestStreakCmd_UnknownHabit(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&StreakCmd{Habit: "nope"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown habit")
	}
}

func TestCategoriesCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&CategoriesCmd{rankFlags: rankFlags{Top: 1}}).Run(ctx); err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "1. fitness") || strings.Contains(got, "learning") {
		t.Errorf("expected only fitness:\n%s", got)
	}

	out.Reset()
	if err := (&CategoriesCmd{Habits: true}).Run(ctx); err != nil {
		t.Fatalf("categories --habits failed: %v", err)
	}
	// one habit each, so canonical category order decides
	if !strings.Contains(out.String(), "1. fitness") || !strings.Contains(out.String(), "2. learning") {
		t.Errorf("unexpected ranking:\n%s", out.String())
	}
}

func TestCategoriesCmd_All(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)
	if _, err := ctx.Settings.Set(constants.SettingTopN, "1"); err != nil {
		t.Fatalf("set top_n: %v", err)
	}

	if err := (&CategoriesCmd{}).Run(ctx); err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if strings.Contains(out.String(), "learning") {
		t.Errorf("top_n=1 should show one category:\n%s", out.String())
	}

	out.Reset()
	if err := (&CategoriesCmd{rankFlags: rankFlags{All: true}}).Run(ctx); err != nil {
		t.Fatalf("categories --all failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "1. fitness") || !strings.Contains(got, "2. learning") {
		t.Errorf("--all should list every category with completions:\n%s", got)
	}
}

func TestTimeslotsCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&TimeslotsCmd{}).Run(ctx); err != nil {
		t.Fatalf("timeslots failed: %v", err)
	}
	if !strings.Contains(out.String(), "1. 06:00-08:00") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestGapCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&GapCmd{Habit: "Run", Days: 10}).Run(ctx); err != nil {
		t.Fatalf("gap failed: %v", err)
	}
	if !strings.Contains(out.String(), "is 3 day(s)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	cmd := &GapCmd{Habit: "Read", From: daysAgo(ctx, 9), To: daysAgo(ctx, 0)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("gap --from failed: %v", err)
	}
	if !strings.Contains(out.String(), "no gap") {
		t.Errorf("a single completion has no gap:\n%s", out.String())
	}

	bad := &GapCmd{Habit: "Run", From: daysAgo(ctx, 0), To: daysAgo(ctx, 3)}
	if err := bad.Run(ctx); err == nil {
		t.Error("expected an error for a reversed window")
	}
}

func TestWeeklyCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&WeeklyCmd{Date: daysAgo(ctx, 5)}).Run(ctx); err != nil {
		t.Fatalf("weekly failed: %v", err)
	}
	if !strings.Contains(out.String(), "Overall:") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if err := (&WeeklyCmd{Date: "05/03/2026"}).Run(ctx); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestDurationsCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	seed(t, ctx)

	if err := (&DurationsCmd{}).Run(ctx); err != nil {
		t.Fatalf("durations failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and two rows:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[2], "Run") || !strings.Contains(lines[2], "1h 15m") {
		t.Errorf("Run should lead with 1h 15m: %q", lines[2])
	}
}
