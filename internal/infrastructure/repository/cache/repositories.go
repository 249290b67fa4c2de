package cache

import (
	"context"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/venue"
	basecache "github.com/matchdayhq/matchday/internal/platform/cache"
)

// VenueRepository caches venue reads in front of another repository.
// Venue hours and exceptions feed every booking decision, so writes
// invalidate the whole venue prefix.
type VenueRepository struct {
	next  venue.Repository
	cache *basecache.Store
}

func NewVenueRepository(next venue.Repository, cache *basecache.Store) *VenueRepository {
	return &VenueRepository{next: next, cache: cache}
}

func (r *VenueRepository) Create(ctx context.Context, v venue.Venue) error {
	if err := r.next.Create(ctx, v); err != nil {
		return err
	}
	r.cache.Delete(ctx, "venue:list")

	return nil
}

func (r *VenueRepository) GetByID(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	key := "venue:id:" + venueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, venueID)
		if err != nil {
			return nil, err
		}
		return cachedVenue{value: item, exists: exists}, nil
	})
	if err != nil {
		return venue.Venue{}, false, err
	}

	cached, _ := v.(cachedVenue)
	return cached.value, cached.exists, nil
}

func (r *VenueRepository) List(ctx context.Context) ([]venue.Venue, error) {
	v, err := r.cache.GetOrLoad(ctx, "venue:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]venue.Venue(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]venue.Venue)
	return append([]venue.Venue(nil), items...), nil
}

func (r *VenueRepository) UpsertException(ctx context.Context, exc venue.Exception) error {
	if err := r.next.UpsertException(ctx, exc); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "venue:exc:"+exc.VenueID)

	return nil
}

func (r *VenueRepository) GetException(ctx context.Context, venueID string, date time.Time) (*venue.Exception, error) {
	key := "venue:exc:" + venueID + ":" + venue.ExceptionDate(date).Format("2006-01-02")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		exc, err := r.next.GetException(ctx, venueID, date)
		if err != nil {
			return nil, err
		}
		return exc, nil
	})
	if err != nil {
		return nil, err
	}

	exc, _ := v.(*venue.Exception)
	return exc, nil
}

func (r *VenueRepository) ListExceptions(ctx context.Context, venueID string) ([]venue.Exception, error) {
	key := "venue:exc:" + venueID + ":list"
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListExceptions(ctx, venueID)
		if err != nil {
			return nil, err
		}
		return append([]venue.Exception(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]venue.Exception)
	return append([]venue.Exception(nil), items...), nil
}

func (r *VenueRepository) DeleteException(ctx context.Context, venueID string, date time.Time) error {
	if err := r.next.DeleteException(ctx, venueID, date); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "venue:exc:"+venueID)

	return nil
}

type cachedVenue struct {
	value  venue.Venue
	exists bool
}
