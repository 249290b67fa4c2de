package venue

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is minutes since midnight, 0 through 1439.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time of day %q out of range", raw)
	}

	return NewTimeOfDay(hour, minute), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// TimeOfDayFrom extracts the UTC time-of-day component of a timestamp.
func TimeOfDayFrom(ts time.Time) TimeOfDay {
	ts = ts.UTC()
	return NewTimeOfDay(ts.Hour(), ts.Minute())
}
