package user

import (
	"fmt"
	"strings"
	"time"
)

// User is a registered player account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Gender       string
	BirthDate    *time.Time
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string
	Name   string
	Email  string
}

func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		return fmt.Errorf("user password hash is required")
	}

	return nil
}
