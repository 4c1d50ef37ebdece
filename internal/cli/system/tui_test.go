package system

import (
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
)

func TestStartReminders(t *testing.T) {
	ctx, _, _ := setupTestDB(t)
	h := seedHabit(t, ctx, "Plan day")
	if _, err := ctx.Settings.Set(constants.SettingReminderChannel, constants.ChannelTray); err != nil {
		t.Fatalf("set channel: %v", err)
	}

	stop := startReminders(ctx)
	if stop == nil {
		t.Fatal("expected reminders to start for the tray channel")
	}
	if !ctx.Scheduler.Running() {
		t.Fatal("scheduler should be running")
	}
	if next, ok := ctx.Scheduler.Next(h.ID + ":daily"); !ok || next.IsZero() {
		t.Errorf("Next(daily) = %v, %v; want a pending activation", next, ok)
	}

	stop()
	if ctx.Scheduler.Running() {
		t.Error("scheduler should stop with the TUI")
	}
}

func TestStartReminders_Skipped(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "stdout channel", key: constants.SettingReminderChannel, value: constants.ChannelStdout},
		{name: "notifications disabled", key: constants.SettingNotificationsEnabled, value: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, _ := setupTestDB(t)
			if _, err := ctx.Settings.Set(tt.key, tt.value); err != nil {
				t.Fatalf("set %s: %v", tt.key, err)
			}
			if stop := startReminders(ctx); stop != nil {
				stop()
				t.Fatal("reminders should not start")
			}
			if ctx.Scheduler.Running() {
				t.Error("scheduler should stay idle")
			}
		})
	}
}
