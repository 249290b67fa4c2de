package venue

import (
	"fmt"
	"strings"
	"time"
)

// Venue is a bookable pitch with optional base operating hours.
// Nil OpensAt and ClosesAt mean the venue has no hour restriction.
type Venue struct {
	ID        string
	Name      string
	Capacity  int
	OpensAt   *TimeOfDay
	ClosesAt  *TimeOfDay
	Bookable  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Exception overrides a venue's base hours for a single calendar date.
// ClosedAllDay wins over override hours; otherwise both OpensAt and
// ClosesAt must be set together.
type Exception struct {
	VenueID      string
	Date         time.Time
	ClosedAllDay bool
	Reason       string
	OpensAt      *TimeOfDay
	ClosesAt     *TimeOfDay
}

func (v Venue) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("venue id is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("venue name is required")
	}
	if v.Capacity < 0 {
		return fmt.Errorf("venue capacity cannot be negative")
	}
	if (v.OpensAt == nil) != (v.ClosesAt == nil) {
		return fmt.Errorf("venue hours must set both opens_at and closes_at or neither")
	}

	return nil
}

// ExceptionDate normalizes a timestamp to the UTC calendar date used as
// the exception lookup key.
func ExceptionDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
