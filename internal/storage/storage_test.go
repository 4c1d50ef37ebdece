package storage

import (
	"errors"
	"testing"
	"time"

	apperr "github.com/julianstephens/habitual/internal/errors"
)

func TestWeekdayEncoding(t *testing.T) {
	days := []time.Weekday{time.Friday, time.Monday, time.Friday, time.Sunday}
	encoded := EncodeWeekdays(days)
	if encoded != "0,1,5" {
		t.Errorf("EncodeWeekdays() = %q, want %q", encoded, "0,1,5")
	}
	decoded, err := DecodeWeekdays(encoded)
	if err != nil {
		t.Fatalf("DecodeWeekdays() error: %v", err)
	}
	want := []time.Weekday{time.Sunday, time.Monday, time.Friday}
	for i := range want {
		if decoded[i] != want[i] {
			t.Errorf("DecodeWeekdays()[%d] = %v, want %v", i, decoded[i], want[i])
		}
	}

	if EncodeWeekdays(nil) != "" {
		t.Error("EncodeWeekdays(nil) should be empty")
	}
	if d, err := DecodeWeekdays(""); err != nil || d != nil {
		t.Errorf("DecodeWeekdays(\"\") = %v, %v", d, err)
	}
	for _, bad := range []string{"7", "a", "1,,2"} {
		if _, err := DecodeWeekdays(bad); err == nil {
			t.Errorf("DecodeWeekdays(%q) should fail", bad)
		}
	}
}

func TestErrorHelpers(t *testing.T) {
	if !errors.Is(NotFound("habit", "Read"), apperr.ErrNotFound) {
		t.Error("NotFound should match ErrNotFound")
	}
	cause := errors.New("database is locked")
	err := Failure("adding habit", cause)
	if !errors.Is(err, apperr.ErrStore) || !errors.Is(err, cause) {
		t.Errorf("Failure() = %v, want store failure wrapping the cause", err)
	}
	if Failure("noop", nil) != nil {
		t.Error("Failure(nil) should be nil")
	}
	if !errors.Is(Conflict("habit %q exists", "Run"), apperr.ErrConflict) {
		t.Error("Conflict should match ErrConflict")
	}
}
