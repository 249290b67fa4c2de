package postgres

import (
	"database/sql"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/domain/user"
	"github.com/matchdayhq/matchday/internal/domain/venue"
)

type userTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Gender       sql.NullString `db:"gender"`
	BirthDate    *time.Time     `db:"birth_date"`
	Phone        sql.NullString `db:"phone"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.PublicID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Gender:       m.Gender.String,
		BirthDate:    m.BirthDate,
		Phone:        m.Phone.String,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type teamTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	Name            string    `db:"name"`
	KitColor        string    `db:"kit_color"`
	CaptainPublicID string    `db:"captain_public_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.PublicID,
		Name:      m.Name,
		KitColor:  m.KitColor,
		CaptainID: m.CaptainPublicID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type memberTableModel struct {
	TeamPublicID string    `db:"team_public_id"`
	UserPublicID string    `db:"user_public_id"`
	ShirtNumber  int       `db:"shirt_number"`
	JoinedAt     time.Time `db:"joined_at"`
}

func (m memberTableModel) toDomain() team.Member {
	return team.Member{
		TeamID:      m.TeamPublicID,
		UserID:      m.UserPublicID,
		ShirtNumber: m.ShirtNumber,
		JoinedAt:    m.JoinedAt,
	}
}

type venueTableModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	Name        string        `db:"name"`
	Capacity    int           `db:"capacity"`
	OpensAtMin  sql.NullInt64 `db:"opens_at_min"`
	ClosesAtMin sql.NullInt64 `db:"closes_at_min"`
	Bookable    bool          `db:"bookable"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func (m venueTableModel) toDomain() venue.Venue {
	return venue.Venue{
		ID:        m.PublicID,
		Name:      m.Name,
		Capacity:  m.Capacity,
		OpensAt:   minutesToTimeOfDay(m.OpensAtMin),
		ClosesAt:  minutesToTimeOfDay(m.ClosesAtMin),
		Bookable:  m.Bookable,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type venueExceptionTableModel struct {
	VenuePublicID string         `db:"venue_public_id"`
	Date          time.Time      `db:"date"`
	ClosedAllDay  bool           `db:"closed_all_day"`
	Reason        sql.NullString `db:"reason"`
	OpensAtMin    sql.NullInt64  `db:"opens_at_min"`
	ClosesAtMin   sql.NullInt64  `db:"closes_at_min"`
}

func (m venueExceptionTableModel) toDomain() venue.Exception {
	return venue.Exception{
		VenueID:      m.VenuePublicID,
		Date:         venue.ExceptionDate(m.Date),
		ClosedAllDay: m.ClosedAllDay,
		Reason:       m.Reason.String,
		OpensAt:      minutesToTimeOfDay(m.OpensAtMin),
		ClosesAt:     minutesToTimeOfDay(m.ClosesAtMin),
	}
}

type matchTableModel struct {
	ID                int64     `db:"id"`
	PublicID          string    `db:"public_id"`
	BookingPublicID   string    `db:"booking_public_id"`
	VenuePublicID     string    `db:"venue_public_id"`
	SchedulerPublicID string    `db:"scheduler_public_id"`
	HomeTeamPublicID  string    `db:"home_team_public_id"`
	AwayTeamPublicID  string    `db:"away_team_public_id"`
	StartsAt          time.Time `db:"starts_at"`
	EndsAt            time.Time `db:"ends_at"`
	CreatedAt         time.Time `db:"created_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:          m.PublicID,
		BookingID:   m.BookingPublicID,
		VenueID:     m.VenuePublicID,
		SchedulerID: m.SchedulerPublicID,
		HomeTeamID:  m.HomeTeamPublicID,
		AwayTeamID:  m.AwayTeamPublicID,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		CreatedAt:   m.CreatedAt,
	}
}

func minutesToTimeOfDay(v sql.NullInt64) *venue.TimeOfDay {
	if !v.Valid {
		return nil
	}
	t := venue.TimeOfDay(v.Int64)
	return &t
}

func timeOfDayToMinutes(t *venue.TimeOfDay) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*t), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
