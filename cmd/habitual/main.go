package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/reminders"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/stats"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperr "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/launch"
	"github.com/julianstephens/habitual/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use HABITUAL_DB_CONNECTION, .pgpass or the OS keyring." type:"string" env:"HABITUAL_CONFIG" default:"~/.config/habitual/habitual.db"`
	Debug   bool   `help:"Log debug output to stderr." env:"HABITUAL_DEBUG"`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitual storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Today    habits.TodayCmd      `cmd:"" help:"Show the habits scheduled for a day."`
	Done     habits.DoneCmd       `cmd:"" help:"Record a completion."`
	Undo     habits.UndoCmd       `cmd:"" help:"Remove a day's completion."`
	Record   habits.RecordCmd     `cmd:"" help:"Manage completion records."`
	Remind   reminders.RemindCmd  `cmd:"" help:"Manage habit reminders."`
	Notify   reminders.NotifyCmd  `cmd:"" hidden:"" help:"Deliver reminders that are due (used by schedulers)."`
	Daemon   reminders.DaemonCmd  `cmd:"" help:"Run the reminder scheduler in the foreground."`
	Stats    stats.StatsCmd       `cmd:"" help:"Show completion statistics."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage credentials in the OS keyring."`
}

// selfManaged commands open or initialize the store themselves.
var selfManaged = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
	"migrate": true,
}

func main() {
	cfg := config.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal habit tracker with streaks, statistics and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := ""
	if sel := ctx.Selected(); sel != nil {
		command = topLevel(sel)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		Verbose:   command == "daemon",
		ConfigDir: logDir(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	store, err := app.OpenStore(CLI.Config, cfg)
	if err != nil {
		apperr.Fatal(err)
	}
	defer store.Close()

	if !selfManaged[command] {
		if _, err := launch.NewManager(store).Run(); err != nil {
			apperr.Fatal(err)
		}
	}

	if err := ctx.Run(cli.NewContext(app.New(store, cfg))); err != nil {
		store.Close()
		apperr.Fatal(err)
	}
}

// topLevel walks up to the command directly under the root.
func topLevel(node *kong.Node) string {
	for node.Parent != nil && node.Parent.Type != kong.ApplicationNode {
		node = node.Parent
	}
	return node.Name
}

func logDir() string {
	path, err := app.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return os.TempDir()
	}
	return filepath.Dir(path)
}
