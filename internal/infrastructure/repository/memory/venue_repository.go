package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/venue"
)

type VenueRepository struct {
	mu         sync.RWMutex
	items      map[string]venue.Venue
	exceptions map[string]map[string]venue.Exception
}

func NewVenueRepository(seedVenues []venue.Venue, seedExceptions []venue.Exception) *VenueRepository {
	r := &VenueRepository{
		items:      make(map[string]venue.Venue, len(seedVenues)),
		exceptions: make(map[string]map[string]venue.Exception),
	}
	for _, v := range seedVenues {
		r.items[v.ID] = v
	}
	for _, exc := range seedExceptions {
		r.putException(exc)
	}
	return r
}

func (r *VenueRepository) Create(_ context.Context, v venue.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[v.ID] = v
	return nil
}

func (r *VenueRepository) GetByID(_ context.Context, venueID string) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[venueID]
	return v, ok, nil
}

func (r *VenueRepository) List(_ context.Context) ([]venue.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]venue.Venue, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *VenueRepository) UpsertException(_ context.Context, exc venue.Exception) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.putException(exc)
	return nil
}

func (r *VenueRepository) GetException(_ context.Context, venueID string, date time.Time) (*venue.Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exc, ok := r.exceptions[venueID][dateKey(date)]
	if !ok {
		return nil, nil
	}
	return &exc, nil
}

func (r *VenueRepository) ListExceptions(_ context.Context, venueID string) ([]venue.Exception, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]venue.Exception, 0, len(r.exceptions[venueID]))
	for _, exc := range r.exceptions[venueID] {
		out = append(out, exc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *VenueRepository) DeleteException(_ context.Context, venueID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.exceptions[venueID], dateKey(date))
	return nil
}

func (r *VenueRepository) putException(exc venue.Exception) {
	if r.exceptions[exc.VenueID] == nil {
		r.exceptions[exc.VenueID] = make(map[string]venue.Exception)
	}
	r.exceptions[exc.VenueID][dateKey(exc.Date)] = exc
}

func dateKey(date time.Time) string {
	return venue.ExceptionDate(date).Format("2006-01-02")
}
