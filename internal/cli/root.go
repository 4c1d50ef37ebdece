package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	*app.Container
	Out io.Writer
	In  io.Reader
}

// NewContext writes to stdout and reads confirmations from stdin.
func NewContext(c *app.Container) *Context {
	return &Context{Container: c, Out: os.Stdout, In: os.Stdin}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func (c *Context) Confirm(question string) bool {
	c.Printf("%s [y/N]: ", question)
	if c.In == nil {
		return false
	}
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Location returns the configured timezone, or the system one when the
// settings cannot be read.
func (c *Context) Location() *time.Location {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Local
	}
	return utils.LocationFromSettings(settings)
}

// BackupManager returns the backup manager for SQLite stores.
func (c *Context) BackupManager() (*backup.Manager, bool) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, false
	}
	return backup.NewManager(c.Store.GetConfigPath()), true
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, ok := c.BackupManager()
	if !ok {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Truncate shortens s to n runes with a trailing ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
