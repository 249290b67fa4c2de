package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/venue"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

// MatchNotifier receives match lifecycle events. Implementations must
// not block the caller; failures never affect the booking outcome.
type MatchNotifier interface {
	MatchScheduled(ctx context.Context, m match.Match)
	MatchCanceled(ctx context.Context, m match.Match)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) MatchScheduled(context.Context, match.Match) {}
func (NopNotifier) MatchCanceled(context.Context, match.Match)  {}

// ScheduleMatchInput is the incoming payload for booking a match.
type ScheduleMatchInput struct {
	SchedulerID string
	VenueID     string
	HomeTeamID  string
	AwayTeamID  string
	StartsAt    time.Time
	EndsAt      time.Time
}

type MatchService struct {
	store    match.Store
	idGen    idgen.Generator
	notifier MatchNotifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchService(
	store match.Store,
	idGen idgen.Generator,
	notifier MatchNotifier,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &MatchService{
		store:    store,
		idGen:    idGen,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// inTx runs fn through the store and translates persistent transaction
// contention into a retryable error for the caller.
func (s *MatchService) inTx(ctx context.Context, fn func(tx match.Tx) error) error {
	err := s.store.InTx(ctx, fn)
	if errors.Is(err, match.ErrTxContention) {
		return fmt.Errorf("%w: booking storage is contended, retry the request", ErrDependencyUnavailable)
	}

	return err
}

// Schedule books a venue slot and creates the match in one transaction.
// The caller must be the captain of the home team. Either every record
// is written or none is.
func (s *MatchService) Schedule(ctx context.Context, input ScheduleMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Schedule")
	defer span.End()

	input.SchedulerID = strings.TrimSpace(input.SchedulerID)
	input.VenueID = strings.TrimSpace(input.VenueID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)

	if input.SchedulerID == "" {
		return match.Match{}, fmt.Errorf("%w: scheduler id is required", ErrInvalidInput)
	}
	if input.VenueID == "" {
		return match.Match{}, fmt.Errorf("%w: venue id is required", ErrInvalidInput)
	}
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return match.Match{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return match.Match{}, fmt.Errorf("%w: a team cannot play against itself", ErrInvalidInput)
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: start and end timestamps are required", ErrInvalidInput)
	}

	start := input.StartsAt.UTC()
	end := input.EndsAt.UTC()
	if !start.Before(end) {
		return match.Match{}, fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	bookingID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate booking id: %w", err)
	}

	created := match.Match{
		ID:          matchID,
		BookingID:   bookingID,
		VenueID:     input.VenueID,
		SchedulerID: input.SchedulerID,
		HomeTeamID:  input.HomeTeamID,
		AwayTeamID:  input.AwayTeamID,
		StartsAt:    start,
		EndsAt:      end,
		CreatedAt:   s.now().UTC(),
	}

	err = s.inTx(ctx, func(tx match.Tx) error {
		captainID, found, err := tx.TeamCaptain(ctx, input.HomeTeamID)
		if err != nil {
			return fmt.Errorf("get home team captain: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: team=%s", ErrNotFound, input.HomeTeamID)
		}
		if captainID != input.SchedulerID {
			return fmt.Errorf("%w: only the home team captain can schedule a match", ErrForbidden)
		}

		if _, found, err := tx.TeamCaptain(ctx, input.AwayTeamID); err != nil {
			return fmt.Errorf("get away team: %w", err)
		} else if !found {
			return fmt.Errorf("%w: team=%s", ErrNotFound, input.AwayTeamID)
		}

		v, found, err := tx.VenueForUpdate(ctx, input.VenueID)
		if err != nil {
			return fmt.Errorf("lock venue: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: venue=%s", ErrNotFound, input.VenueID)
		}
		if !v.Bookable {
			return fmt.Errorf("%w: venue %s does not accept bookings", ErrSchedulingConflict, v.Name)
		}

		exc, err := tx.VenueException(ctx, input.VenueID, venue.ExceptionDate(start))
		if err != nil {
			return fmt.Errorf("get venue exception: %w", err)
		}

		window, err := venue.ResolveWindow(v, exc)
		if err != nil {
			return fmt.Errorf("%w: venue availability could not be resolved: %v", ErrSchedulingConflict, err)
		}
		if window.ClosedAllDay {
			return fmt.Errorf("%w: venue is closed on %s: %s", ErrSchedulingConflict, venue.ExceptionDate(start).Format("2006-01-02"), window.Reason)
		}
		if !window.Allows(start, end) {
			return fmt.Errorf("%w: requested slot is outside venue hours %s", ErrSchedulingConflict, window.Describe())
		}

		taken, err := tx.HasOverlap(ctx, input.VenueID, start, end)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: slot already booked", ErrSchedulingConflict)
		}

		assignments := []match.Assignment{
			{MatchID: matchID, TeamID: input.HomeTeamID, Side: match.SideHome},
			{MatchID: matchID, TeamID: input.AwayTeamID, Side: match.SideAway},
		}
		if err := tx.InsertMatch(ctx, created, assignments); err != nil {
			if errors.Is(err, match.ErrSlotTaken) {
				return fmt.Errorf("%w: slot already booked", ErrSchedulingConflict)
			}
			return fmt.Errorf("insert match: %w", err)
		}

		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match scheduled",
		"match_id", created.ID,
		"venue_id", created.VenueID,
		"home_team_id", created.HomeTeamID,
		"away_team_id", created.AwayTeamID,
		"starts_at", created.StartsAt,
	)
	s.notifier.MatchScheduled(ctx, created)

	return created, nil
}

// SetPresence records the caller's attendance answer for a match. The
// write is a last-write-wins upsert; repeating a status is a no-op.
func (s *MatchService) SetPresence(ctx context.Context, callerID, matchID, rawStatus string) (match.Presence, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SetPresence")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	matchID = strings.TrimSpace(matchID)
	if callerID == "" || matchID == "" {
		return match.Presence{}, fmt.Errorf("%w: caller id and match id are required", ErrInvalidInput)
	}

	status, err := match.ParsePresenceStatus(rawStatus)
	if err != nil {
		return match.Presence{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	presence := match.Presence{
		MatchID:   matchID,
		UserID:    callerID,
		Status:    status,
		UpdatedAt: s.now().UTC(),
	}

	err = s.inTx(ctx, func(tx match.Tx) error {
		if _, found, err := tx.MatchForUpdate(ctx, matchID); err != nil {
			return fmt.Errorf("get match: %w", err)
		} else if !found {
			return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}

		participant, err := tx.IsParticipant(ctx, matchID, callerID)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if !participant {
			return fmt.Errorf("%w: only players of the assigned teams can answer", ErrForbidden)
		}

		if err := tx.UpsertPresence(ctx, presence); err != nil {
			return fmt.Errorf("upsert presence: %w", err)
		}

		return nil
	})
	if err != nil {
		return match.Presence{}, err
	}

	return presence, nil
}

// Cancel removes a match and releases its venue slot. Only the user who
// scheduled the match can cancel it; all records go in one transaction.
func (s *MatchService) Cancel(ctx context.Context, callerID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	matchID = strings.TrimSpace(matchID)
	if callerID == "" || matchID == "" {
		return fmt.Errorf("%w: caller id and match id are required", ErrInvalidInput)
	}

	var canceled match.Match
	err := s.inTx(ctx, func(tx match.Tx) error {
		m, found, err := tx.MatchForUpdate(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}
		if m.SchedulerID != callerID {
			return fmt.Errorf("%w: only the scheduler can cancel a match", ErrForbidden)
		}

		if err := tx.DeleteMatch(ctx, matchID); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}

		canceled = m
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match canceled",
		"match_id", canceled.ID,
		"venue_id", canceled.VenueID,
		"scheduler_id", canceled.SchedulerID,
	)
	s.notifier.MatchCanceled(ctx, canceled)

	return nil
}

func (s *MatchService) List(ctx context.Context) ([]match.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return items, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Summary{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, found, err := s.store.Get(ctx, matchID)
	if err != nil {
		return match.Summary{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return match.Summary{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return item, nil
}

func (s *MatchService) Roster(ctx context.Context, matchID string) ([]match.RosterEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Roster")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if _, found, err := s.store.Get(ctx, matchID); err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	entries, err := s.store.Roster(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match roster: %w", err)
	}

	return entries, nil
}
