package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/venue"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

// CreateVenueInput is the incoming payload for registering a venue.
// OpensAt and ClosesAt are "HH:MM" strings; both empty means the venue
// has no hour restriction.
type CreateVenueInput struct {
	Name     string
	Capacity int
	OpensAt  string
	ClosesAt string
	Bookable bool
}

// SetClosureInput records a date exception for a venue: either a full
// closure with a reason, or override hours for that date.
type SetClosureInput struct {
	VenueID      string
	Date         time.Time
	ClosedAllDay bool
	Reason       string
	OpensAt      string
	ClosesAt     string
}

type VenueService struct {
	venueRepo venue.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewVenueService(venueRepo venue.Repository, idGen idgen.Generator, logger *logging.Logger) *VenueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &VenueService{
		venueRepo: venueRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *VenueService) Create(ctx context.Context, input CreateVenueInput) (venue.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return venue.Venue{}, fmt.Errorf("%w: venue name is required", ErrInvalidInput)
	}
	if input.Capacity < 0 {
		return venue.Venue{}, fmt.Errorf("%w: capacity cannot be negative", ErrInvalidInput)
	}

	opens, closes, err := parseHourPair(input.OpensAt, input.ClosesAt)
	if err != nil {
		return venue.Venue{}, err
	}

	venueID, err := s.idGen.NewID()
	if err != nil {
		return venue.Venue{}, fmt.Errorf("generate venue id: %w", err)
	}

	now := s.now().UTC()
	created := venue.Venue{
		ID:        venueID,
		Name:      input.Name,
		Capacity:  input.Capacity,
		OpensAt:   opens,
		ClosesAt:  closes,
		Bookable:  input.Bookable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := created.Validate(); err != nil {
		return venue.Venue{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.venueRepo.Create(ctx, created); err != nil {
		return venue.Venue{}, fmt.Errorf("create venue: %w", err)
	}

	s.logger.InfoContext(ctx, "venue created", "venue_id", created.ID, "name", created.Name)

	return created, nil
}

func (s *VenueService) List(ctx context.Context) ([]venue.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.List")
	defer span.End()

	items, err := s.venueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}

	return items, nil
}

func (s *VenueService) Get(ctx context.Context, venueID string) (venue.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.Get")
	defer span.End()

	venueID = strings.TrimSpace(venueID)
	if venueID == "" {
		return venue.Venue{}, fmt.Errorf("%w: venue id is required", ErrInvalidInput)
	}

	item, found, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return venue.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	if !found {
		return venue.Venue{}, fmt.Errorf("%w: venue=%s", ErrNotFound, venueID)
	}

	return item, nil
}

// SetClosure upserts the exception for (venue, date). A closed-all-day
// exception ignores override hours.
func (s *VenueService) SetClosure(ctx context.Context, input SetClosureInput) (venue.Exception, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.SetClosure")
	defer span.End()

	input.VenueID = strings.TrimSpace(input.VenueID)
	if input.VenueID == "" {
		return venue.Exception{}, fmt.Errorf("%w: venue id is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return venue.Exception{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := s.Get(ctx, input.VenueID); err != nil {
		return venue.Exception{}, err
	}

	exc := venue.Exception{
		VenueID:      input.VenueID,
		Date:         venue.ExceptionDate(input.Date),
		ClosedAllDay: input.ClosedAllDay,
		Reason:       strings.TrimSpace(input.Reason),
	}
	if !input.ClosedAllDay {
		opens, closes, err := parseHourPair(input.OpensAt, input.ClosesAt)
		if err != nil {
			return venue.Exception{}, err
		}
		if opens == nil {
			return venue.Exception{}, fmt.Errorf("%w: an exception must close the venue or override its hours", ErrInvalidInput)
		}
		exc.OpensAt = opens
		exc.ClosesAt = closes
	}

	if err := s.venueRepo.UpsertException(ctx, exc); err != nil {
		return venue.Exception{}, fmt.Errorf("upsert venue exception: %w", err)
	}

	s.logger.InfoContext(ctx, "venue closure set",
		"venue_id", exc.VenueID,
		"date", exc.Date.Format("2006-01-02"),
		"closed_all_day", exc.ClosedAllDay,
	)

	return exc, nil
}

func (s *VenueService) ListClosures(ctx context.Context, venueID string) ([]venue.Exception, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.ListClosures")
	defer span.End()

	if _, err := s.Get(ctx, venueID); err != nil {
		return nil, err
	}

	items, err := s.venueRepo.ListExceptions(ctx, strings.TrimSpace(venueID))
	if err != nil {
		return nil, fmt.Errorf("list venue exceptions: %w", err)
	}

	return items, nil
}

func (s *VenueService) DeleteClosure(ctx context.Context, venueID string, date time.Time) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.DeleteClosure")
	defer span.End()

	if _, err := s.Get(ctx, venueID); err != nil {
		return err
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.venueRepo.DeleteException(ctx, strings.TrimSpace(venueID), venue.ExceptionDate(date)); err != nil {
		return fmt.Errorf("delete venue exception: %w", err)
	}

	return nil
}

func parseHourPair(rawOpens, rawCloses string) (*venue.TimeOfDay, *venue.TimeOfDay, error) {
	rawOpens = strings.TrimSpace(rawOpens)
	rawCloses = strings.TrimSpace(rawCloses)
	if rawOpens == "" && rawCloses == "" {
		return nil, nil, nil
	}
	if rawOpens == "" || rawCloses == "" {
		return nil, nil, fmt.Errorf("%w: opens_at and closes_at must be set together", ErrInvalidInput)
	}

	opens, err := venue.ParseTimeOfDay(rawOpens)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	closes, err := venue.ParseTimeOfDay(rawCloses)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if closes <= opens {
		return nil, nil, fmt.Errorf("%w: closes_at must be after opens_at", ErrInvalidInput)
	}

	return &opens, &closes, nil
}
