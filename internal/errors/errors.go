package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitual/internal/logger"
)

var (
	// ErrNotFound is returned when a habit, record or reminder does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrStore wraps failures reported by the storage backend
	ErrStore = stderrors.New("store failure")
	// ErrInvalid marks input rejected by validation
	ErrInvalid = stderrors.New("invalid input")
	// ErrConflict marks writes that clash with existing data
	ErrConflict = stderrors.New("conflict")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New returns an error with the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Wrap annotates err with kind so callers can classify it with Is.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Wrapf builds an error of the given kind from a format string.
func Wrapf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// UserMessage turns err into the short message shown in the CLI and TUI.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrNotFound):
		return fmt.Sprintf("Not found: %s", detail(err, ErrNotFound))
	case Is(err, ErrInvalid):
		return fmt.Sprintf("Invalid input: %s", detail(err, ErrInvalid))
	case Is(err, ErrConflict):
		return fmt.Sprintf("Conflict: %s", detail(err, ErrConflict))
	case Is(err, ErrStore):
		return "Store failure: the data could not be read or saved. Run 'habitual doctor' for details."
	default:
		return err.Error()
	}
}

// detail drops the kind marker added by Wrap from the message.
func detail(err, kind error) string {
	return strings.Replace(err.Error(), kind.Error()+": ", "", 1)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", UserMessage(err))
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

