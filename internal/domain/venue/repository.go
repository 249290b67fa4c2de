package venue

import (
	"context"
	"time"
)

// Repository describes venue persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, v Venue) error
	GetByID(ctx context.Context, venueID string) (Venue, bool, error)
	List(ctx context.Context) ([]Venue, error)

	UpsertException(ctx context.Context, exc Exception) error
	GetException(ctx context.Context, venueID string, date time.Time) (*Exception, error)
	ListExceptions(ctx context.Context, venueID string) ([]Exception, error)
	DeleteException(ctx context.Context, venueID string, date time.Time) error
}
