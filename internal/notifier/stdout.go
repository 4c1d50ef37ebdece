package notifier

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// StdoutNotifier prints reminders, for dry runs and headless machines.
type StdoutNotifier struct {
	w io.Writer
}

// NewStdout writes to w, or to os.Stdout when w is nil.
func NewStdout(w io.Writer) *StdoutNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutNotifier{w: w}
}

func (n *StdoutNotifier) Name() string { return constants.ChannelStdout }

func (n *StdoutNotifier) Notify(msg Message) error {
	_, err := fmt.Fprintf(n.w, "[%s] %s\n", time.Now().Format(constants.TimeFormat), msg)
	return err
}
