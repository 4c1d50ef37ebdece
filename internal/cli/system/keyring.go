package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type KeyringCmd struct {
	Set          KeyringSetCmd          `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get          KeyringGetCmd          `cmd:"" help:"Show the stored connection string with its password masked."`
	Delete       KeyringDeleteCmd       `cmd:"" help:"Remove the stored connection string."`
	Status       KeyringStatusCmd       `cmd:"" help:"Check whether the OS keyring is available."`
	SMTPPassword KeyringSMTPPasswordCmd `cmd:"" name:"smtp-password" help:"Store or remove the SMTP password for email reminders."`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !app.IsPostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so an embedded password is tolerated here
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Println("✓ Connection string stored successfully in OS keyring")
	ctx.Println("  You can now use habitual without the --config flag")
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'habitual keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.Println("Connection string retrieved from keyring:")
	ctx.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.Println("✓ OS keyring is available")

	report := func(what string, err error) {
		switch {
		case err == nil:
			ctx.Printf("✓ %s is stored in keyring\n", what)
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("ℹ No %s stored in keyring\n", strings.ToLower(what))
		}
	}
	_, err := keyring.GetConnectionString()
	report("Connection string", err)
	_, err = keyring.GetSMTPPassword()
	report("SMTP password", err)
	return nil
}

// KeyringSMTPPasswordCmd keeps the SMTP password out of the environment.
type KeyringSMTPPasswordCmd struct {
	Password string `arg:"" optional:"" help:"SMTP password to store."`
	Delete   bool   `help:"Remove the stored SMTP password."`
}

func (cmd *KeyringSMTPPasswordCmd) Run(ctx *cli.Context) error {
	if cmd.Delete {
		if err := keyring.DeleteSMTPPassword(); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return errors.New("no SMTP password found in keyring")
			}
			return fmt.Errorf("failed to delete SMTP password from keyring: %w", err)
		}
		ctx.Println("✓ SMTP password deleted from OS keyring")
		return nil
	}
	if cmd.Password == "" {
		return errors.New("password is required unless --delete is given")
	}
	if err := keyring.SetSMTPPassword(cmd.Password); err != nil {
		return err
	}
	ctx.Println("✓ SMTP password stored successfully in OS keyring")
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		remaining := connStr[idx+3:]
		// the last @ separates user info from host
		if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
			userInfo := remaining[:atIdx]
			if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
				return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
