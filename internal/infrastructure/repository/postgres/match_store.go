package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/venue"
)

const inTxMaxAttempts = 3

// MatchStore runs booking writes in serializable transactions. The
// venue row lock plus the bookings exclusion constraint keep one
// booking per venue slot even across concurrent connections.
type MatchStore struct {
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) InTx(ctx context.Context, fn func(tx match.Tx) error) error {
	var err error
	for attempt := 1; attempt <= inTxMaxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !isRetryableTxFailure(err) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", match.ErrTxContention, err)
}

func (s *MatchStore) runTx(ctx context.Context, fn func(tx match.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin match tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&matchTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match tx: %w", err)
	}

	return nil
}

const matchColumns = `
SELECT m.id, m.public_id, m.booking_public_id, m.venue_public_id, m.scheduler_public_id,
       m.home_team_public_id, m.away_team_public_id, m.starts_at, m.ends_at, m.created_at
FROM matches m`

type summaryRow struct {
	matchTableModel
	VenueName     sql.NullString `db:"venue_name"`
	SchedulerName sql.NullString `db:"scheduler_name"`
	HomeTeamName  sql.NullString `db:"home_team_name"`
	AwayTeamName  sql.NullString `db:"away_team_name"`
}

func (r summaryRow) toSummary() match.Summary {
	return match.Summary{
		Match:         r.toDomain(),
		VenueName:     r.VenueName.String,
		SchedulerName: r.SchedulerName.String,
		HomeTeamName:  r.HomeTeamName.String,
		AwayTeamName:  r.AwayTeamName.String,
	}
}

const summaryQuery = `
SELECT m.id, m.public_id, m.booking_public_id, m.venue_public_id, m.scheduler_public_id,
       m.home_team_public_id, m.away_team_public_id, m.starts_at, m.ends_at, m.created_at,
       v.name AS venue_name,
       u.name AS scheduler_name,
       ht.name AS home_team_name,
       aw.name AS away_team_name
FROM matches m
LEFT JOIN venues v ON v.public_id = m.venue_public_id
LEFT JOIN users u ON u.public_id = m.scheduler_public_id
LEFT JOIN teams ht ON ht.public_id = m.home_team_public_id
LEFT JOIN teams aw ON aw.public_id = m.away_team_public_id`

func (s *MatchStore) List(ctx context.Context) ([]match.Summary, error) {
	var rows []summaryRow
	if err := s.db.SelectContext(ctx, &rows, summaryQuery+`
ORDER BY m.starts_at`); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	items := make([]match.Summary, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toSummary())
	}

	return items, nil
}

func (s *MatchStore) Get(ctx context.Context, matchID string) (match.Summary, bool, error) {
	var row summaryRow
	if err := s.db.GetContext(ctx, &row, summaryQuery+`
WHERE m.public_id = $1`, matchID); err != nil {
		if isNotFound(err) {
			return match.Summary{}, false, nil
		}
		return match.Summary{}, false, fmt.Errorf("get match: %w", err)
	}

	return row.toSummary(), true, nil
}

func (s *MatchStore) Roster(ctx context.Context, matchID string) ([]match.RosterEntry, error) {
	// One row per user even when the user belongs to both assigned
	// teams; the home side wins the tie.
	const query = `
SELECT DISTINCT ON (p.user_public_id)
       p.user_public_id, COALESCE(u.name, '') AS user_name,
       COALESCE(a.team_public_id, '') AS team_public_id, COALESCE(t.name, '') AS team_name,
       p.status, p.updated_at
FROM match_presences p
LEFT JOIN users u ON u.public_id = p.user_public_id
LEFT JOIN match_team_assignments a
       ON a.match_public_id = p.match_public_id
      AND EXISTS (
              SELECT 1
              FROM team_members tm
              WHERE tm.team_public_id = a.team_public_id
                AND tm.user_public_id = p.user_public_id
          )
LEFT JOIN teams t ON t.public_id = a.team_public_id
WHERE p.match_public_id = $1
ORDER BY p.user_public_id, a.side DESC`

	var rows []struct {
		UserPublicID string    `db:"user_public_id"`
		UserName     string    `db:"user_name"`
		TeamPublicID string    `db:"team_public_id"`
		TeamName     string    `db:"team_name"`
		Status       string    `db:"status"`
		UpdatedAt    time.Time `db:"updated_at"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("list match roster: %w", err)
	}

	entries := make([]match.RosterEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, match.RosterEntry{
			UserID:    row.UserPublicID,
			UserName:  row.UserName,
			TeamID:    row.TeamPublicID,
			TeamName:  row.TeamName,
			Status:    match.PresenceStatus(row.Status),
			UpdatedAt: row.UpdatedAt,
		})
	}

	return entries, nil
}

func (s *MatchStore) TeamHasUpcoming(ctx context.Context, teamID string, from time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM matches
	WHERE (home_team_public_id = $1 OR away_team_public_id = $1)
	  AND starts_at > $2
)`

	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, teamID, from); err != nil {
		return false, fmt.Errorf("check upcoming matches: %w", err)
	}

	return exists, nil
}

type matchTx struct {
	tx *sqlx.Tx
}

func (t *matchTx) VenueForUpdate(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	const query = `
SELECT id, public_id, name, capacity, opens_at_min, closes_at_min, bookable, created_at, updated_at
FROM venues
WHERE public_id = $1
FOR UPDATE`

	var row venueTableModel
	if err := t.tx.GetContext(ctx, &row, query, venueID); err != nil {
		if isNotFound(err) {
			return venue.Venue{}, false, nil
		}
		return venue.Venue{}, false, fmt.Errorf("lock venue: %w", err)
	}

	return row.toDomain(), true, nil
}

func (t *matchTx) VenueException(ctx context.Context, venueID string, date time.Time) (*venue.Exception, error) {
	const query = `
SELECT venue_public_id, date, closed_all_day, reason, opens_at_min, closes_at_min
FROM venue_exceptions
WHERE venue_public_id = $1
  AND date = $2`

	var row venueExceptionTableModel
	if err := t.tx.GetContext(ctx, &row, query, venueID, venue.ExceptionDate(date)); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venue exception: %w", err)
	}

	exc := row.toDomain()
	return &exc, nil
}

func (t *matchTx) TeamCaptain(ctx context.Context, teamID string) (string, bool, error) {
	const query = `
SELECT captain_public_id
FROM teams
WHERE public_id = $1`

	var captainID string
	if err := t.tx.GetContext(ctx, &captainID, query, teamID); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get team captain: %w", err)
	}

	return captainID, true, nil
}

func (t *matchTx) HasOverlap(ctx context.Context, venueID string, start, end time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM bookings
	WHERE venue_public_id = $1
	  AND starts_at < $3
	  AND $2 < ends_at
)`

	var exists bool
	if err := t.tx.GetContext(ctx, &exists, query, venueID, start, end); err != nil {
		return false, fmt.Errorf("check booking overlap: %w", err)
	}

	return exists, nil
}

func (t *matchTx) InsertMatch(ctx context.Context, m match.Match, assignments []match.Assignment) error {
	const bookingQuery = `
INSERT INTO bookings (public_id, venue_public_id, starts_at, ends_at, created_at)
VALUES (:public_id, :venue_public_id, :starts_at, :ends_at, :created_at)`

	sqlQuery, args, err := sqlx.Named(bookingQuery, map[string]any{
		"public_id":       m.BookingID,
		"venue_public_id": m.VenueID,
		"starts_at":       m.StartsAt,
		"ends_at":         m.EndsAt,
		"created_at":      m.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert booking query: %w", err)
	}
	sqlQuery = t.tx.Rebind(sqlQuery)
	if _, err := t.tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		if isExclusionViolation(err) {
			return match.ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	const matchQuery = `
INSERT INTO matches (public_id, booking_public_id, venue_public_id, scheduler_public_id,
                     home_team_public_id, away_team_public_id, starts_at, ends_at, created_at)
VALUES (:public_id, :booking_public_id, :venue_public_id, :scheduler_public_id,
        :home_team_public_id, :away_team_public_id, :starts_at, :ends_at, :created_at)`

	sqlQuery, args, err = sqlx.Named(matchQuery, map[string]any{
		"public_id":           m.ID,
		"booking_public_id":   m.BookingID,
		"venue_public_id":     m.VenueID,
		"scheduler_public_id": m.SchedulerID,
		"home_team_public_id": m.HomeTeamID,
		"away_team_public_id": m.AwayTeamID,
		"starts_at":           m.StartsAt,
		"ends_at":             m.EndsAt,
		"created_at":          m.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert match query: %w", err)
	}
	sqlQuery = t.tx.Rebind(sqlQuery)
	if _, err := t.tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	const assignmentQuery = `
INSERT INTO match_team_assignments (match_public_id, team_public_id, side)
VALUES ($1, $2, $3)`

	for _, a := range assignments {
		if _, err := t.tx.ExecContext(ctx, assignmentQuery, a.MatchID, a.TeamID, string(a.Side)); err != nil {
			return fmt.Errorf("insert match assignment: %w", err)
		}
	}

	return nil
}

func (t *matchTx) MatchForUpdate(ctx context.Context, matchID string) (match.Match, bool, error) {
	var row matchTableModel
	if err := t.tx.GetContext(ctx, &row, matchColumns+`
WHERE m.public_id = $1
FOR UPDATE`, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("lock match: %w", err)
	}

	return row.toDomain(), true, nil
}

// DeleteMatch removes the assignments, presences, match row, and the
// booking row so the slot frees up in the same transaction.
func (t *matchTx) DeleteMatch(ctx context.Context, matchID string) error {
	var bookingID string
	if err := t.tx.GetContext(ctx, &bookingID, `
SELECT booking_public_id FROM matches WHERE public_id = $1`, matchID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("get match booking: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, `DELETE FROM match_team_assignments WHERE match_public_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete match assignments: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM match_presences WHERE match_public_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete match presences: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM matches WHERE public_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM bookings WHERE public_id = $1`, bookingID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	return nil
}

func (t *matchTx) IsParticipant(ctx context.Context, matchID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM match_team_assignments a
	JOIN team_members tm ON tm.team_public_id = a.team_public_id
	WHERE a.match_public_id = $1
	  AND tm.user_public_id = $2
)`

	var exists bool
	if err := t.tx.GetContext(ctx, &exists, query, matchID, userID); err != nil {
		return false, fmt.Errorf("check match participant: %w", err)
	}

	return exists, nil
}

func (t *matchTx) UpsertPresence(ctx context.Context, p match.Presence) error {
	const query = `
INSERT INTO match_presences (match_public_id, user_public_id, status, updated_at)
VALUES (:match_public_id, :user_public_id, :status, :updated_at)
ON CONFLICT (match_public_id, user_public_id)
DO UPDATE SET
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"match_public_id": p.MatchID,
		"user_public_id":  p.UserID,
		"status":          string(p.Status),
		"updated_at":      p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert presence query: %w", err)
	}
	sqlQuery = t.tx.Rebind(sqlQuery)

	if _, err := t.tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}

	return nil
}
