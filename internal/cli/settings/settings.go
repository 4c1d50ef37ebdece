package settings

import (
	"strconv"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone name, or Local for the system timezone."`
	NotificationsEnabled *bool   `help:"Enable or disable reminders."`
	ReminderChannel      *string `help:"Where reminders go: tray, email or stdout."`
	ReminderEmail        *string `help:"Recipient address for the email channel."`
	WeekStart            *string `help:"First day of the week for weekly stats: monday or sunday."`
	TopN                 *int    `help:"Default number of entries in stats rankings."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.List {
		return c.list(ctx)
	}

	// the email address goes first so switching to the email channel validates
	var changes [][2]string
	if c.ReminderEmail != nil {
		changes = append(changes, [2]string{constants.SettingReminderEmail, *c.ReminderEmail})
	}
	if c.ReminderChannel != nil {
		changes = append(changes, [2]string{constants.SettingReminderChannel, *c.ReminderChannel})
	}
	if c.Timezone != nil {
		changes = append(changes, [2]string{constants.SettingTimezone, *c.Timezone})
	}
	if c.NotificationsEnabled != nil {
		changes = append(changes, [2]string{constants.SettingNotificationsEnabled, strconv.FormatBool(*c.NotificationsEnabled)})
	}
	if c.WeekStart != nil {
		changes = append(changes, [2]string{constants.SettingWeekStart, *c.WeekStart})
	}
	if c.TopN != nil {
		changes = append(changes, [2]string{constants.SettingTopN, strconv.Itoa(*c.TopN)})
	}

	if len(changes) == 0 {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	for _, change := range changes {
		if _, err := ctx.Settings.Set(change[0], change[1]); err != nil {
			return err
		}
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

func (c *SettingsCmd) list(ctx *cli.Context) error {
	settings, err := ctx.Settings.Get()
	if err != nil {
		return err
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Timezone:              %s\n", settings.Timezone)
	ctx.Printf("  Week Start:            %s\n", settings.WeekStart)
	ctx.Printf("  Top N:                 %d\n", settings.TopN)
	ctx.Println("\nReminder Settings:")
	ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	ctx.Printf("  Reminder Channel:      %s\n", settings.ReminderChannel)
	if settings.ReminderEmail != "" {
		ctx.Printf("  Reminder Email:        %s\n", settings.ReminderEmail)
	}
	return nil
}
