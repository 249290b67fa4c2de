package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/domain/venue"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n), nil
}

func newMatchFixture() (*MatchService, *memory.VenueRepository, *memory.MatchStore) {
	users := memory.NewUserRepository(memory.SeedUsers())
	teams := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMembers())
	venues := memory.NewVenueRepository(memory.SeedVenues(), nil)
	store := memory.NewMatchStore(users, teams, venues)

	service := NewMatchService(store, &seqIDGenerator{}, NopNotifier{}, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	return service, venues, store
}

func slot(day time.Time, startHour, endHour int) (time.Time, time.Time) {
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func TestMatchService_Schedule_WithinVenueHours(t *testing.T) {
	service, _, store := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)

	created, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if created.ID == "" || created.BookingID == "" {
		t.Fatalf("expected generated ids, got %+v", created)
	}

	summary, err := service.Get(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get match failed: %v", err)
	}
	if summary.VenueName != "Arena Norte" || summary.HomeTeamName != "Tigres FC" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	_ = store
}

func TestMatchService_Schedule_OutsideVenueHours(t *testing.T) {
	service, _, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	// Arena Norte opens 08:00 and closes 22:00.
	cases := []struct {
		name               string
		startHour, endHour int
	}{
		{"before opening", 7, 9},
		{"after closing", 21, 23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := slot(day, tc.startHour, tc.endHour)
			_, err := service.Schedule(t.Context(), ScheduleMatchInput{
				SchedulerID: memory.UserIDAna,
				VenueID:     memory.VenueIDArenaNorte,
				HomeTeamID:  memory.TeamIDTigres,
				AwayTeamID:  memory.TeamIDCorujas,
				StartsAt:    start,
				EndsAt:      end,
			})
			if !errors.Is(err, ErrSchedulingConflict) {
				t.Fatalf("expected ErrSchedulingConflict, got %v", err)
			}
		})
	}
}

func TestMatchService_Schedule_ClosedAllDay(t *testing.T) {
	service, venues, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	err := venues.UpsertException(t.Context(), venue.Exception{
		VenueID:      memory.VenueIDArenaNorte,
		Date:         venue.ExceptionDate(day),
		ClosedAllDay: true,
		Reason:       "maintenance",
	})
	if err != nil {
		t.Fatalf("seed exception failed: %v", err)
	}

	start, end := slot(day, 18, 19)
	_, err = service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "maintenance") {
		t.Fatalf("expected closure reason in error, got %q", got)
	}

	// The next day has no exception.
	nextStart, nextEnd := slot(day.AddDate(0, 0, 1), 18, 19)
	if _, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    nextStart,
		EndsAt:      nextEnd,
	}); err != nil {
		t.Fatalf("schedule on unaffected day failed: %v", err)
	}
}

func TestMatchService_Schedule_OverrideHours(t *testing.T) {
	service, venues, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	opens := venue.NewTimeOfDay(10, 0)
	closes := venue.NewTimeOfDay(14, 0)
	err := venues.UpsertException(t.Context(), venue.Exception{
		VenueID:  memory.VenueIDArenaNorte,
		Date:     venue.ExceptionDate(day),
		OpensAt:  &opens,
		ClosesAt: &closes,
	})
	if err != nil {
		t.Fatalf("seed exception failed: %v", err)
	}

	// 18:00 fits the base hours but not the override.
	start, end := slot(day, 18, 19)
	_, err = service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "10:00-14:00") {
		t.Fatalf("expected override window in error, got %q", got)
	}

	overrideStart, overrideEnd := slot(day, 11, 13)
	if _, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    overrideStart,
		EndsAt:      overrideEnd,
	}); err != nil {
		t.Fatalf("schedule inside override hours failed: %v", err)
	}
}

func TestMatchService_Schedule_PartialOverrideConflicts(t *testing.T) {
	service, venues, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	opens := venue.NewTimeOfDay(10, 0)
	err := venues.UpsertException(t.Context(), venue.Exception{
		VenueID: memory.VenueIDArenaNorte,
		Date:    venue.ExceptionDate(day),
		OpensAt: &opens,
	})
	if err != nil {
		t.Fatalf("seed exception failed: %v", err)
	}

	start, end := slot(day, 18, 19)
	_, err = service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict for partial override, got %v", err)
	}
}

func TestMatchService_Schedule_OverlapRejected(t *testing.T) {
	service, _, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	book := func(startHour, endHour int) error {
		start, end := slot(day, startHour, endHour)
		_, err := service.Schedule(t.Context(), ScheduleMatchInput{
			SchedulerID: memory.UserIDAna,
			VenueID:     memory.VenueIDArenaNorte,
			HomeTeamID:  memory.TeamIDTigres,
			AwayTeamID:  memory.TeamIDCorujas,
			StartsAt:    start,
			EndsAt:      end,
		})
		return err
	}

	if err := book(18, 20); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if err := book(19, 21); !errors.Is(err, ErrSchedulingConflict) {
		t.Fatalf("expected overlap conflict, got %v", err)
	}
	if got := book(19, 21); !strings.Contains(got.Error(), "slot already booked") {
		t.Fatalf("expected slot taken message, got %q", got.Error())
	}
	// Half-open intervals: back to back is fine.
	if err := book(20, 22); err != nil {
		t.Fatalf("back-to-back booking failed: %v", err)
	}

	// An overlapping slot at a different venue is unaffected.
	start, end := slot(day, 18, 20)
	if _, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDQuadraSul,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	}); err != nil {
		t.Fatalf("booking at second venue failed: %v", err)
	}
}

func TestMatchService_Schedule_Authorization(t *testing.T) {
	service, _, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)

	// Bruno is a Tigres member but not the captain.
	_, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDBruno,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDTigres,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for same team, got %v", err)
	}

	_, err = service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     "venue-missing",
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown venue, got %v", err)
	}

	_, err = service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    end,
		EndsAt:      start,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted interval, got %v", err)
	}
}

func TestMatchService_Schedule_ConcurrentSameSlot(t *testing.T) {
	service, _, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Schedule(t.Context(), ScheduleMatchInput{
				SchedulerID: memory.UserIDAna,
				VenueID:     memory.VenueIDArenaNorte,
				HomeTeamID:  memory.TeamIDTigres,
				AwayTeamID:  memory.TeamIDCorujas,
				StartsAt:    start,
				EndsAt:      end,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		if !errors.Is(err, ErrSchedulingConflict) {
			t.Fatalf("expected ErrSchedulingConflict for losers, got %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winning booking, got %d", won)
	}
}

type contendedStore struct {
	match.Store
}

func (contendedStore) InTx(context.Context, func(tx match.Tx) error) error {
	return fmt.Errorf("%w: could not serialize access due to concurrent update", match.ErrTxContention)
}

func TestMatchService_StoreContentionIsRetryable(t *testing.T) {
	service, _, store := newMatchFixture()
	service.store = contendedStore{Store: store}

	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)

	_, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable for schedule, got %v", err)
	}

	if _, err := service.SetPresence(t.Context(), memory.UserIDBruno, "match-001", "confirmed"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable for presence, got %v", err)
	}
	if err := service.Cancel(t.Context(), memory.UserIDAna, "match-001"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable for cancel, got %v", err)
	}
}

func TestMatchService_SetPresence(t *testing.T) {
	service, _, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)

	created, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	// Any answer can replace any other, including away team members.
	for _, status := range []string{"confirmed", "doubt", "declined", "declined"} {
		if _, err := service.SetPresence(t.Context(), memory.UserIDDiego, created.ID, status); err != nil {
			t.Fatalf("set presence %s failed: %v", status, err)
		}
	}

	roster, err := service.Roster(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("roster failed: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected a single roster row after repeated answers, got %d", len(roster))
	}
	if roster[0].UserID != memory.UserIDDiego || roster[0].Status != match.PresenceDeclined {
		t.Fatalf("unexpected roster row %+v", roster[0])
	}

	if _, err := service.SetPresence(t.Context(), memory.UserIDBruno, created.ID, "maybe"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
	if _, err := service.SetPresence(t.Context(), "user-stranger", created.ID, "confirmed"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non participant, got %v", err)
	}
	if _, err := service.SetPresence(t.Context(), memory.UserIDBruno, "match-missing", "confirmed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown match, got %v", err)
	}
}

func TestMatchService_Roster_MemberOfBothTeams(t *testing.T) {
	users := memory.NewUserRepository(memory.SeedUsers())
	teams := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMembers())
	venues := memory.NewVenueRepository(memory.SeedVenues(), nil)
	store := memory.NewMatchStore(users, teams, venues)
	service := NewMatchService(store, &seqIDGenerator{}, NopNotifier{}, logging.NewNop())

	// Bruno plays for Tigres and signs with Corujas too.
	err := teams.AddMember(t.Context(), team.Member{
		TeamID:      memory.TeamIDCorujas,
		UserID:      memory.UserIDBruno,
		ShirtNumber: 77,
		JoinedAt:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)
	created, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if _, err := service.SetPresence(t.Context(), memory.UserIDBruno, created.ID, "confirmed"); err != nil {
		t.Fatalf("set presence failed: %v", err)
	}

	roster, err := service.Roster(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("roster failed: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected a single roster row, got %d", len(roster))
	}
	if roster[0].TeamID != memory.TeamIDTigres {
		t.Fatalf("expected the home team to win the tie, got %q", roster[0].TeamID)
	}
}

func TestMatchService_Cancel(t *testing.T) {
	service, _, _ := newMatchFixture()
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	start, end := slot(day, 18, 19)

	created, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	})
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if _, err := service.SetPresence(t.Context(), memory.UserIDBruno, created.ID, "confirmed"); err != nil {
		t.Fatalf("set presence failed: %v", err)
	}

	// Carla captains the away team; only the scheduler may cancel.
	if err := service.Cancel(t.Context(), memory.UserIDCarla, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := service.Cancel(t.Context(), memory.UserIDAna, created.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := service.Get(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after cancel, got %v", err)
	}

	// The slot is free again.
	if _, err := service.Schedule(t.Context(), ScheduleMatchInput{
		SchedulerID: memory.UserIDAna,
		VenueID:     memory.VenueIDArenaNorte,
		HomeTeamID:  memory.TeamIDTigres,
		AwayTeamID:  memory.TeamIDCorujas,
		StartsAt:    start,
		EndsAt:      end,
	}); err != nil {
		t.Fatalf("rebooking released slot failed: %v", err)
	}

	if err := service.Cancel(t.Context(), memory.UserIDAna, "match-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
