package launch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func TestRun_FirstAndLaterLaunches(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "sub", "habitual.db"))
	defer store.Close()

	m := NewManager(store)
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return day1 }

	state, err := m.Run()
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if !state.First || state.Count != 1 {
		t.Errorf("first launch state = %+v", state)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.ReminderChannel != constants.DefaultReminderChannel || settings.TopN != constants.DefaultTopN {
		t.Errorf("defaults not written: %+v", settings)
	}

	day2 := day1.Add(24 * time.Hour)
	m.now = func() time.Time { return day2 }
	state, err = m.Run()
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if state.First {
		t.Error("second launch reported as first")
	}
	if state.Count != 2 {
		t.Errorf("Count = %d, want 2", state.Count)
	}
	if !state.FirstLaunchAt.Equal(day1) {
		t.Errorf("FirstLaunchAt = %v, want %v", state.FirstLaunchAt, day1)
	}

	last, err := store.GetSetting(constants.SettingLastLaunchAt)
	if err != nil || last != day2.Format(time.RFC3339) {
		t.Errorf("last_launch_at = %q, %v", last, err)
	}
}

func TestRun_KeepsUserSettings(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	defer store.Close()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	settings, _ := store.GetSettings()
	settings.WeekStart = constants.WeekStartSunday
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(store).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got, _ := store.GetSettings()
	if got.WeekStart != constants.WeekStartSunday {
		t.Errorf("WeekStart = %q, first launch overwrote it", got.WeekStart)
	}
}

func TestRun_InitFailure(t *testing.T) {
	dir := t.TempDir()
	// a file where the directory should be
	blocker := filepath.Join(dir, "blocked")
	if err := writeFile(blocker); err != nil {
		t.Fatal(err)
	}
	store := sqlite.NewStore(filepath.Join(blocker, "habitual.db"))
	if _, err := NewManager(store).Run(); err == nil {
		t.Error("expected an error when the store cannot be created")
	}
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o600)
}
