package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if stop := startReminders(ctx); stop != nil {
		defer stop()
	}

	p := tea.NewProgram(tui.NewModel(ctx.Container), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// startReminders runs the reminder scheduler for the life of the TUI so
// habit edits made there reschedule live. The stdout channel would draw
// over the screen, so it is left to the daemon.
func startReminders(ctx *cli.Context) func() {
	settings, err := ctx.Settings.Get()
	if err != nil || !settings.NotificationsEnabled || settings.ReminderChannel == constants.ChannelStdout {
		return nil
	}
	daemon, err := ctx.Daemon()
	if err == nil {
		err = daemon.Start()
	}
	if err != nil {
		logger.Warn("Reminders unavailable in the TUI", "error", err)
		return nil
	}
	return daemon.Stop
}
