package stats

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Gap is a run of consecutive days without any completion.
type Gap struct {
	Start time.Time `json:"start"` // first missing day
	End   time.Time `json:"end"`   // last missing day
	Days  int       `json:"days"`
}

// LongestGap finds the longest stretch of missing days strictly between two
// consecutive active days inside [from, to]. The window edges never bound a
// gap, so {Jan 1, Jan 5} over Jan 1-10 yields Jan 2-Jan 4 (3 days).
// ok is false when fewer than two active days fall in the window or when the
// active days are all adjacent.
func LongestGap(times []time.Time, from, to time.Time, loc *time.Location) (gap Gap, ok bool) {
	from, to = from.In(loc), to.In(loc)
	var inWindow []time.Time
	for _, d := range DistinctDays(times, loc) {
		if models.DaysBetween(from, d) < 0 || models.DaysBetween(d, to) < 0 {
			continue
		}
		inWindow = append(inWindow, d)
	}

	for i := 1; i < len(inWindow); i++ {
		missing := models.DaysBetween(inWindow[i-1], inWindow[i]) - 1
		if missing <= gap.Days {
			continue
		}
		gap = Gap{
			Start: inWindow[i-1].AddDate(0, 0, 1),
			End:   inWindow[i].AddDate(0, 0, -1),
			Days:  missing,
		}
		ok = true
	}
	return gap, ok
}
