package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset deletes an existing SQLite database after backing it up.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.BackupManager(); !ok {
		return fmt.Errorf("--force only resets SQLite databases; drop the PostgreSQL schema manually")
	}
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	source, err := app.OpenStore(c.Source, nil)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	return copyStore(ctx, source, ctx.Store)
}

func copyStore(ctx *cli.Context, from, to storage.Provider) error {
	ctx.Println("  Migrating settings...")
	settings, err := from.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := to.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating habits...")
	habits, err := from.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := to.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("    Migrated %d habits\n", len(habits))

	ctx.Println("  Migrating completions...")
	records, err := from.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to get completions from source: %w", err)
	}
	for _, r := range records {
		if err := to.AddRecord(r); err != nil {
			return fmt.Errorf("failed to add completion %s: %w", r.ID, err)
		}
	}
	ctx.Printf("    Migrated %d completions\n", len(records))

	ctx.Println("  Migrating reminders...")
	notifications, err := from.GetAllNotifications()
	if err != nil {
		return fmt.Errorf("failed to get reminders from source: %w", err)
	}
	for _, n := range notifications {
		if err := to.SaveNotification(n); err != nil {
			return fmt.Errorf("failed to add reminder for habit %s: %w", n.HabitID, err)
		}
	}
	ctx.Printf("    Migrated %d reminders\n", len(notifications))
	return nil
}
