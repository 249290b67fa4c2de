package venue

import (
	"errors"
	"time"
)

// ErrInvalidOverride is returned when an exception overrides hours with
// only one side of the opens/closes pair set.
var ErrInvalidOverride = errors.New("exception override hours are incomplete")

// DefaultClosureReason is reported when a closure carries no reason.
const DefaultClosureReason = "closed for an unspecified reason"

// Window is the effective availability of a venue on one date.
type Window struct {
	ClosedAllDay bool
	Reason       string
	OpensAt      *TimeOfDay
	ClosesAt     *TimeOfDay
}

// ResolveWindow combines a venue's base hours with an optional date
// exception. exc may be nil when the date has no exception.
func ResolveWindow(v Venue, exc *Exception) (Window, error) {
	if exc == nil {
		return Window{OpensAt: v.OpensAt, ClosesAt: v.ClosesAt}, nil
	}

	if exc.ClosedAllDay {
		reason := exc.Reason
		if reason == "" {
			reason = DefaultClosureReason
		}
		return Window{ClosedAllDay: true, Reason: reason}, nil
	}

	if (exc.OpensAt == nil) != (exc.ClosesAt == nil) {
		return Window{}, ErrInvalidOverride
	}
	if exc.OpensAt == nil {
		// Exception row exists but neither closes the venue nor
		// overrides hours; base hours stand.
		return Window{OpensAt: v.OpensAt, ClosesAt: v.ClosesAt}, nil
	}

	return Window{OpensAt: exc.OpensAt, ClosesAt: exc.ClosesAt}, nil
}

// Allows reports whether the interval [start, end) fits inside the
// window. Unrestricted windows allow any interval. Callers must reject
// closed-all-day windows before asking.
func (w Window) Allows(start, end time.Time) bool {
	if w.ClosedAllDay {
		return false
	}
	if w.OpensAt == nil || w.ClosesAt == nil {
		return true
	}

	return TimeOfDayFrom(start) >= *w.OpensAt && TimeOfDayFrom(end) <= *w.ClosesAt
}

// Describe renders the window for conflict messages, e.g. "08:00-22:00".
func (w Window) Describe() string {
	if w.OpensAt == nil || w.ClosesAt == nil {
		return "unrestricted"
	}
	return w.OpensAt.String() + "-" + w.ClosesAt.String()
}
