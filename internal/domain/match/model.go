package match

import (
	"fmt"
	"strings"
	"time"
)

// Side marks which slot a team occupies in a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// PresenceStatus is a player's attendance answer for a match.
type PresenceStatus string

const (
	PresenceConfirmed PresenceStatus = "confirmed"
	PresenceDoubt     PresenceStatus = "doubt"
	PresenceDeclined  PresenceStatus = "declined"
)

// ParsePresenceStatus accepts exactly the three known statuses.
func ParsePresenceStatus(raw string) (PresenceStatus, error) {
	switch PresenceStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PresenceConfirmed:
		return PresenceConfirmed, nil
	case PresenceDoubt:
		return PresenceDoubt, nil
	case PresenceDeclined:
		return PresenceDeclined, nil
	default:
		return "", fmt.Errorf("unknown presence status %q", raw)
	}
}

// Match is a scheduled game occupying a venue slot. BookingID points at
// the slot reservation created in the same transaction.
type Match struct {
	ID          string
	BookingID   string
	VenueID     string
	SchedulerID string
	HomeTeamID  string
	AwayTeamID  string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
}

// Assignment links a team to a match side.
type Assignment struct {
	MatchID string
	TeamID  string
	Side    Side
}

// Presence is the latest attendance answer of one user for one match.
type Presence struct {
	MatchID   string
	UserID    string
	Status    PresenceStatus
	UpdatedAt time.Time
}

// Summary is the listing projection of a match.
type Summary struct {
	Match
	VenueName     string
	SchedulerName string
	HomeTeamName  string
	AwayTeamName  string
}

// RosterEntry is one row of a match's presence roster.
type RosterEntry struct {
	UserID    string
	UserName  string
	TeamID    string
	TeamName  string
	Status    PresenceStatus
	UpdatedAt time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if strings.TrimSpace(m.VenueID) == "" {
		return fmt.Errorf("match venue id is required")
	}
	if strings.TrimSpace(m.SchedulerID) == "" {
		return fmt.Errorf("match scheduler id is required")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" || strings.TrimSpace(m.AwayTeamID) == "" {
		return fmt.Errorf("match team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match teams must differ")
	}
	if !m.StartsAt.Before(m.EndsAt) {
		return fmt.Errorf("match start must be before end")
	}

	return nil
}
