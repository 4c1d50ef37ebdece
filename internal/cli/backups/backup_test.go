package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Container: app.New(store, nil), Out: out}, store, out
}

func addHabit(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	_, err := ctx.Habits.Create(service.HabitInput{
		Title:      title,
		Category:   "health",
		Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
	})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
}

func TestBackupListCmd_Empty(t *testing.T) {
	ctx, _, out := setupTestDB(t)
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, _, out := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: "+constants.BackupFilePrefix) {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("expected one backup:\n%s", out.String())
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx, store, out := setupTestDB(t)
	addHabit(t, ctx, "Floss")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	addHabit(t, ctx, "Walk")

	// declining leaves the database alone
	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("expected cancellation:\n%s", out.String())
	}

	out.Reset()
	ctx.In = strings.NewReader("yes\n")
	if err := (&BackupRestoreCmd{}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Previous database saved as") {
		t.Errorf("expected the safety backup to be reported:\n%s", out.String())
	}

	if err := store.Load(); err != nil {
		t.Fatalf("reload after restore: %v", err)
	}
	habits, err := store.GetAllHabits(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].Title != "Floss" {
		t.Errorf("habits after restore = %v, want only Floss", habits)
	}
}

func TestBackupRestoreCmd_UnknownFile(t *testing.T) {
	ctx, _, _ := setupTestDB(t)
	if err := (&BackupRestoreCmd{BackupFile: "missing.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}
