package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/venue"
)

type VenueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) Create(ctx context.Context, v venue.Venue) error {
	const query = `
INSERT INTO venues (public_id, name, capacity, opens_at_min, closes_at_min, bookable, created_at, updated_at)
VALUES (:public_id, :name, :capacity, :opens_at_min, :closes_at_min, :bookable, :created_at, :updated_at)`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":     v.ID,
		"name":          v.Name,
		"capacity":      v.Capacity,
		"opens_at_min":  timeOfDayToMinutes(v.OpensAt),
		"closes_at_min": timeOfDayToMinutes(v.ClosesAt),
		"bookable":      v.Bookable,
		"created_at":    v.CreatedAt,
		"updated_at":    v.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert venue query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}

	return nil
}

func (r *VenueRepository) GetByID(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	const query = `
SELECT id, public_id, name, capacity, opens_at_min, closes_at_min, bookable, created_at, updated_at
FROM venues
WHERE public_id = $1`

	var row venueTableModel
	if err := r.db.GetContext(ctx, &row, query, venueID); err != nil {
		if isNotFound(err) {
			return venue.Venue{}, false, nil
		}
		return venue.Venue{}, false, fmt.Errorf("get venue: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *VenueRepository) List(ctx context.Context) ([]venue.Venue, error) {
	const query = `
SELECT id, public_id, name, capacity, opens_at_min, closes_at_min, bookable, created_at, updated_at
FROM venues
ORDER BY name`

	var rows []venueTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	items := make([]venue.Venue, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}

	return items, nil
}

func (r *VenueRepository) UpsertException(ctx context.Context, exc venue.Exception) error {
	const query = `
INSERT INTO venue_exceptions (venue_public_id, date, closed_all_day, reason, opens_at_min, closes_at_min)
VALUES (:venue_public_id, :date, :closed_all_day, :reason, :opens_at_min, :closes_at_min)
ON CONFLICT (venue_public_id, date)
DO UPDATE SET
    closed_all_day = EXCLUDED.closed_all_day,
    reason = EXCLUDED.reason,
    opens_at_min = EXCLUDED.opens_at_min,
    closes_at_min = EXCLUDED.closes_at_min`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"venue_public_id": exc.VenueID,
		"date":            venue.ExceptionDate(exc.Date),
		"closed_all_day":  exc.ClosedAllDay,
		"reason":          nullString(exc.Reason),
		"opens_at_min":    timeOfDayToMinutes(exc.OpensAt),
		"closes_at_min":   timeOfDayToMinutes(exc.ClosesAt),
	})
	if err != nil {
		return fmt.Errorf("bind upsert venue exception query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("upsert venue exception: %w", err)
	}

	return nil
}

func (r *VenueRepository) GetException(ctx context.Context, venueID string, date time.Time) (*venue.Exception, error) {
	const query = `
SELECT venue_public_id, date, closed_all_day, reason, opens_at_min, closes_at_min
FROM venue_exceptions
WHERE venue_public_id = $1
  AND date = $2`

	var row venueExceptionTableModel
	if err := r.db.GetContext(ctx, &row, query, venueID, venue.ExceptionDate(date)); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venue exception: %w", err)
	}

	exc := row.toDomain()
	return &exc, nil
}

func (r *VenueRepository) ListExceptions(ctx context.Context, venueID string) ([]venue.Exception, error) {
	const query = `
SELECT venue_public_id, date, closed_all_day, reason, opens_at_min, closes_at_min
FROM venue_exceptions
WHERE venue_public_id = $1
ORDER BY date`

	var rows []venueExceptionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, venueID); err != nil {
		return nil, fmt.Errorf("list venue exceptions: %w", err)
	}

	items := make([]venue.Exception, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}

	return items, nil
}

func (r *VenueRepository) DeleteException(ctx context.Context, venueID string, date time.Time) error {
	const query = `
DELETE FROM venue_exceptions
WHERE venue_public_id = $1
  AND date = $2`

	if _, err := r.db.ExecContext(ctx, query, venueID, venue.ExceptionDate(date)); err != nil {
		return fmt.Errorf("delete venue exception: %w", err)
	}

	return nil
}
