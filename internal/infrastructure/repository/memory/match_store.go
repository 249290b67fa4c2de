package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/venue"
)

// MatchStore keeps matches, assignments, and presences in maps. A single
// store-wide mutex held for the whole InTx call gives the same
// serialization the SQL store gets from row locks.
type MatchStore struct {
	mu          sync.Mutex
	users       *UserRepository
	teams       *TeamRepository
	venues      *VenueRepository
	matches     map[string]match.Match
	assignments map[string][]match.Assignment
	presences   map[string]map[string]match.Presence
}

func NewMatchStore(users *UserRepository, teams *TeamRepository, venues *VenueRepository) *MatchStore {
	return &MatchStore{
		users:       users,
		teams:       teams,
		venues:      venues,
		matches:     make(map[string]match.Match),
		assignments: make(map[string][]match.Assignment),
		presences:   make(map[string]map[string]match.Presence),
	}
}

func (s *MatchStore) InTx(ctx context.Context, fn func(tx match.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &matchTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()

	return nil
}

func (s *MatchStore) List(ctx context.Context) ([]match.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]match.Summary, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, s.summarize(ctx, m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (s *MatchStore) Get(ctx context.Context, matchID string) (match.Summary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return match.Summary{}, false, nil
	}
	return s.summarize(ctx, m), true, nil
}

func (s *MatchStore) Roster(ctx context.Context, matchID string) ([]match.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]match.RosterEntry, 0, len(s.presences[matchID]))
	for _, p := range s.presences[matchID] {
		entry := match.RosterEntry{
			UserID:    p.UserID,
			Status:    p.Status,
			UpdatedAt: p.UpdatedAt,
		}
		if u, ok, _ := s.users.GetByID(ctx, p.UserID); ok {
			entry.UserName = u.Name
		}
		for _, a := range s.assignments[matchID] {
			if ok, _ := s.teams.IsMember(ctx, a.TeamID, p.UserID); ok {
				entry.TeamID = a.TeamID
				if t, found, _ := s.teams.GetByID(ctx, a.TeamID); found {
					entry.TeamName = t.Name
				}
				break
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *MatchStore) TeamHasUpcoming(_ context.Context, teamID string, from time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for matchID, list := range s.assignments {
		for _, a := range list {
			if a.TeamID != teamID {
				continue
			}
			if m, ok := s.matches[matchID]; ok && m.StartsAt.After(from) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *MatchStore) summarize(ctx context.Context, m match.Match) match.Summary {
	out := match.Summary{Match: m}
	if v, ok, _ := s.venues.GetByID(ctx, m.VenueID); ok {
		out.VenueName = v.Name
	}
	if u, ok, _ := s.users.GetByID(ctx, m.SchedulerID); ok {
		out.SchedulerName = u.Name
	}
	if t, ok, _ := s.teams.GetByID(ctx, m.HomeTeamID); ok {
		out.HomeTeamName = t.Name
	}
	if t, ok, _ := s.teams.GetByID(ctx, m.AwayTeamID); ok {
		out.AwayTeamName = t.Name
	}
	return out
}

// matchTx stages writes and applies them only when the callback
// succeeds, so a failed callback leaves the maps untouched.
type matchTx struct {
	store            *MatchStore
	stagedMatches    []match.Match
	stagedAssignment []match.Assignment
	stagedPresences  []match.Presence
	deletedMatches   []string
}

func (tx *matchTx) VenueForUpdate(ctx context.Context, venueID string) (venue.Venue, bool, error) {
	return tx.store.venues.GetByID(ctx, venueID)
}

func (tx *matchTx) VenueException(ctx context.Context, venueID string, date time.Time) (*venue.Exception, error) {
	return tx.store.venues.GetException(ctx, venueID, date)
}

func (tx *matchTx) TeamCaptain(ctx context.Context, teamID string) (string, bool, error) {
	t, ok, err := tx.store.teams.GetByID(ctx, teamID)
	if err != nil || !ok {
		return "", false, err
	}
	return t.CaptainID, true, nil
}

func (tx *matchTx) HasOverlap(_ context.Context, venueID string, start, end time.Time) (bool, error) {
	for _, m := range tx.store.matches {
		if m.VenueID == venueID && match.Overlaps(m.StartsAt, m.EndsAt, start, end) {
			return true, nil
		}
	}
	for _, m := range tx.stagedMatches {
		if m.VenueID == venueID && match.Overlaps(m.StartsAt, m.EndsAt, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (tx *matchTx) InsertMatch(ctx context.Context, m match.Match, assignments []match.Assignment) error {
	if taken, _ := tx.HasOverlap(ctx, m.VenueID, m.StartsAt, m.EndsAt); taken {
		return match.ErrSlotTaken
	}

	tx.stagedMatches = append(tx.stagedMatches, m)
	tx.stagedAssignment = append(tx.stagedAssignment, assignments...)
	return nil
}

func (tx *matchTx) MatchForUpdate(_ context.Context, matchID string) (match.Match, bool, error) {
	m, ok := tx.store.matches[matchID]
	return m, ok, nil
}

func (tx *matchTx) DeleteMatch(_ context.Context, matchID string) error {
	tx.deletedMatches = append(tx.deletedMatches, matchID)
	return nil
}

func (tx *matchTx) IsParticipant(ctx context.Context, matchID, userID string) (bool, error) {
	for _, a := range tx.store.assignments[matchID] {
		if ok, err := tx.store.teams.IsMember(ctx, a.TeamID, userID); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
	}
	return false, nil
}

func (tx *matchTx) UpsertPresence(_ context.Context, p match.Presence) error {
	tx.stagedPresences = append(tx.stagedPresences, p)
	return nil
}

func (tx *matchTx) commit() {
	for _, m := range tx.stagedMatches {
		tx.store.matches[m.ID] = m
	}
	for _, a := range tx.stagedAssignment {
		tx.store.assignments[a.MatchID] = append(tx.store.assignments[a.MatchID], a)
	}
	for _, p := range tx.stagedPresences {
		if tx.store.presences[p.MatchID] == nil {
			tx.store.presences[p.MatchID] = make(map[string]match.Presence)
		}
		tx.store.presences[p.MatchID][p.UserID] = p
	}
	for _, matchID := range tx.deletedMatches {
		delete(tx.store.matches, matchID)
		delete(tx.store.assignments, matchID)
		delete(tx.store.presences, matchID)
	}
}
