package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(ctx *cli.Context) error
	needsDB  bool
	warnOnly bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Settings", run: checkSettings, needsDB: true},
		{name: "Record integrity", run: checkRecordsIntegrity, needsDB: true},
		{name: "Reminder integrity", run: checkRemindersIntegrity, needsDB: true},
		{name: "Duplicate completions", run: checkDuplicateCompletions, needsDB: true},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err = m.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitual migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return fmt.Errorf("automatic backups only cover SQLite; back up PostgreSQL with pg_dump")
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("unknown timezone %q (fix with 'habitual settings --timezone')", settings.Timezone)
	}
	if settings.ReminderChannel == constants.ChannelEmail && settings.ReminderEmail == "" {
		return fmt.Errorf("reminders go to email but no address is set")
	}
	return nil
}

func habitIDs(ctx *cli.Context) (map[string]bool, error) {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		ids[h.ID] = true
	}
	return ids, nil
}

// checkRecordsIntegrity looks for completions whose habit no longer exists.
func checkRecordsIntegrity(ctx *cli.Context) error {
	ids, err := habitIDs(ctx)
	if err != nil {
		return err
	}
	records, err := ctx.Store.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}
	orphaned := 0
	for _, r := range records {
		if !ids[r.HabitID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d orphaned completions (referencing non-existent habits)", orphaned)
	}
	return nil
}

func checkRemindersIntegrity(ctx *cli.Context) error {
	ids, err := habitIDs(ctx)
	if err != nil {
		return err
	}
	notifications, err := ctx.Store.GetAllNotifications()
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}
	for _, n := range notifications {
		if !ids[n.HabitID] {
			return fmt.Errorf("reminder %s references missing habit %s", n.ID, n.HabitID)
		}
		if _, _, err := n.HourMinute(); err != nil {
			return fmt.Errorf("reminder %s has an invalid time %q", n.ID, n.Time)
		}
	}
	return nil
}

// checkDuplicateCompletions flags habits completed more than once on a day.
func checkDuplicateCompletions(ctx *cli.Context) error {
	records, err := ctx.Store.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}
	loc := ctx.Location()
	seen := make(map[string]bool, len(records))
	duplicates := 0
	for _, r := range records {
		key := r.HabitID + "|" + r.CompletedAt.In(loc).Format(constants.DateFormat)
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	if duplicates > 0 {
		return fmt.Errorf("found %d habit+day combinations with duplicate completions", duplicates)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
