package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchdayhq/matchday/internal/domain/team"
)

type TeamRepository struct {
	mu      sync.RWMutex
	items   map[string]team.Team
	members map[string]map[string]team.Member
}

func NewTeamRepository(seedTeams []team.Team, seedMembers []team.Member) *TeamRepository {
	r := &TeamRepository{
		items:   make(map[string]team.Team, len(seedTeams)),
		members: make(map[string]map[string]team.Member),
	}
	for _, t := range seedTeams {
		r.items[t.ID] = t
	}
	for _, m := range seedMembers {
		r.putMember(m)
	}
	return r
}

func (r *TeamRepository) Create(_ context.Context, t team.Team, captain team.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[t.ID] = t
	r.putMember(captain)
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	return t, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) Update(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[t.ID] = t
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, teamID)
	delete(r.members, teamID)
	return nil
}

func (r *TeamRepository) AddMember(_ context.Context, m team.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[m.TeamID][m.UserID]; ok {
		return fmt.Errorf("%w: member=%s team=%s", team.ErrDuplicateMember, m.UserID, m.TeamID)
	}
	for _, existing := range r.members[m.TeamID] {
		if existing.ShirtNumber == m.ShirtNumber {
			return fmt.Errorf("%w: shirt=%d team=%s", team.ErrDuplicateMember, m.ShirtNumber, m.TeamID)
		}
	}

	r.putMember(m)
	return nil
}

func (r *TeamRepository) GetMember(_ context.Context, teamID, userID string) (team.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[teamID][userID]
	return m, ok, nil
}

func (r *TeamRepository) ListMembers(_ context.Context, teamID string) ([]team.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Member, 0, len(r.members[teamID]))
	for _, m := range r.members[teamID] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShirtNumber < out[j].ShirtNumber })
	return out, nil
}

func (r *TeamRepository) UpdateMember(_ context.Context, m team.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.putMember(m)
	return nil
}

func (r *TeamRepository) RemoveMember(_ context.Context, teamID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.members[teamID], userID)
	return nil
}

func (r *TeamRepository) IsMember(_ context.Context, teamID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[teamID][userID]
	return ok, nil
}

func (r *TeamRepository) putMember(m team.Member) {
	if r.members[m.TeamID] == nil {
		r.members[m.TeamID] = make(map[string]team.Member)
	}
	r.members[m.TeamID][m.UserID] = m
}
