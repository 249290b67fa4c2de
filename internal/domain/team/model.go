package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a squad of players managed by a captain.
type Team struct {
	ID        string
	Name      string
	KitColor  string
	CaptainID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member links a user to a team with their shirt number.
type Member struct {
	TeamID      string
	UserID      string
	ShirtNumber int
	JoinedAt    time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.CaptainID) == "" {
		return fmt.Errorf("team captain id is required")
	}

	return nil
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.TeamID) == "" {
		return fmt.Errorf("member team id is required")
	}
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("member user id is required")
	}
	if m.ShirtNumber < 1 || m.ShirtNumber > 99 {
		return fmt.Errorf("shirt number must be between 1 and 99")
	}

	return nil
}
