package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/team"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

// CreateTeamInput is the incoming payload for founding a team.
type CreateTeamInput struct {
	CreatorID   string
	Name        string
	KitColor    string
	ShirtNumber int
}

// UpdateTeamInput renames a team, changes its kit color, or hands the
// captaincy to another member. Empty fields keep current values.
type UpdateTeamInput struct {
	CallerID     string
	TeamID       string
	Name         string
	KitColor     string
	NewCaptainID string
}

type AddMemberInput struct {
	CallerID    string
	TeamID      string
	UserID      string
	ShirtNumber int
}

type TeamService struct {
	teamRepo team.Repository
	store    match.Store
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamService(teamRepo team.Repository, store match.Store, idGen idgen.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo: teamRepo,
		store:    store,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

// Create founds a team; the creator becomes captain and first member in
// the same write.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	input.CreatorID = strings.TrimSpace(input.CreatorID)
	input.Name = strings.TrimSpace(input.Name)
	if input.CreatorID == "" {
		return team.Team{}, fmt.Errorf("%w: creator id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.ShirtNumber == 0 {
		input.ShirtNumber = 10
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	created := team.Team{
		ID:        teamID,
		Name:      input.Name,
		KitColor:  strings.TrimSpace(input.KitColor),
		CaptainID: input.CreatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	captain := team.Member{
		TeamID:      teamID,
		UserID:      input.CreatorID,
		ShirtNumber: input.ShirtNumber,
		JoinedAt:    now,
	}

	if err := created.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := captain.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, created, captain); err != nil {
		if errors.Is(err, team.ErrDuplicateMember) {
			return team.Team{}, fmt.Errorf("%w: captain membership is already taken", ErrAlreadyExists)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", created.ID, "captain_id", created.CaptainID)

	return created, nil
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

// Update is captain-only. A captaincy transfer target must already be a
// member of the team.
func (s *TeamService) Update(ctx context.Context, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	current, err := s.requireCaptain(ctx, input.TeamID, input.CallerID)
	if err != nil {
		return team.Team{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if kit := strings.TrimSpace(input.KitColor); kit != "" {
		current.KitColor = kit
	}
	if newCaptain := strings.TrimSpace(input.NewCaptainID); newCaptain != "" && newCaptain != current.CaptainID {
		isMember, err := s.teamRepo.IsMember(ctx, current.ID, newCaptain)
		if err != nil {
			return team.Team{}, fmt.Errorf("check membership: %w", err)
		}
		if !isMember {
			return team.Team{}, fmt.Errorf("%w: new captain must be a member of the team", ErrInvalidInput)
		}
		current.CaptainID = newCaptain
	}
	current.UpdatedAt = s.now().UTC()

	if err := s.teamRepo.Update(ctx, current); err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	return current, nil
}

// Delete is captain-only and refused while the team still has a match
// booked in the future.
func (s *TeamService) Delete(ctx context.Context, callerID, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	if _, err := s.requireCaptain(ctx, teamID, callerID); err != nil {
		return err
	}

	hasUpcoming, err := s.store.TeamHasUpcoming(ctx, strings.TrimSpace(teamID), s.now().UTC())
	if err != nil {
		return fmt.Errorf("check upcoming matches: %w", err)
	}
	if hasUpcoming {
		return fmt.Errorf("%w: team still has upcoming matches", ErrSchedulingConflict)
	}

	if err := s.teamRepo.Delete(ctx, strings.TrimSpace(teamID)); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", teamID, "caller_id", callerID)

	return nil
}

// AddMember is captain-only. Shirt numbers are unique inside a team.
func (s *TeamService) AddMember(ctx context.Context, input AddMemberInput) (team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AddMember")
	defer span.End()

	if _, err := s.requireCaptain(ctx, input.TeamID, input.CallerID); err != nil {
		return team.Member{}, err
	}

	member := team.Member{
		TeamID:      strings.TrimSpace(input.TeamID),
		UserID:      strings.TrimSpace(input.UserID),
		ShirtNumber: input.ShirtNumber,
		JoinedAt:    s.now().UTC(),
	}
	if err := member.Validate(); err != nil {
		return team.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, found, err := s.teamRepo.GetMember(ctx, member.TeamID, member.UserID); err != nil {
		return team.Member{}, fmt.Errorf("get member: %w", err)
	} else if found {
		return team.Member{}, fmt.Errorf("%w: user is already a member", ErrAlreadyExists)
	}

	if err := s.requireFreeShirtNumber(ctx, member.TeamID, member.UserID, member.ShirtNumber); err != nil {
		return team.Member{}, err
	}

	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		// A concurrent insert can win between the checks above and the
		// write; surface it the same way the checks would have.
		if errors.Is(err, team.ErrDuplicateMember) {
			return team.Member{}, fmt.Errorf("%w: membership or shirt number is already taken", ErrAlreadyExists)
		}
		return team.Member{}, fmt.Errorf("add member: %w", err)
	}

	return member, nil
}

func (s *TeamService) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListMembers")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if _, found, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

// UpdateMemberShirt is captain-only.
func (s *TeamService) UpdateMemberShirt(ctx context.Context, callerID, teamID, userID string, shirtNumber int) (team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateMemberShirt")
	defer span.End()

	if _, err := s.requireCaptain(ctx, teamID, callerID); err != nil {
		return team.Member{}, err
	}

	member, found, err := s.teamRepo.GetMember(ctx, strings.TrimSpace(teamID), strings.TrimSpace(userID))
	if err != nil {
		return team.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !found {
		return team.Member{}, fmt.Errorf("%w: member=%s", ErrNotFound, userID)
	}

	member.ShirtNumber = shirtNumber
	if err := member.Validate(); err != nil {
		return team.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.requireFreeShirtNumber(ctx, member.TeamID, member.UserID, shirtNumber); err != nil {
		return team.Member{}, err
	}

	if err := s.teamRepo.UpdateMember(ctx, member); err != nil {
		return team.Member{}, fmt.Errorf("update member: %w", err)
	}

	return member, nil
}

// RemoveMember is captain-only; the captain cannot remove themselves
// while holding the captaincy.
func (s *TeamService) RemoveMember(ctx context.Context, callerID, teamID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemoveMember")
	defer span.End()

	current, err := s.requireCaptain(ctx, teamID, callerID)
	if err != nil {
		return err
	}

	userID = strings.TrimSpace(userID)
	if userID == current.CaptainID {
		return fmt.Errorf("%w: captain must hand over the captaincy before leaving", ErrInvalidInput)
	}

	if _, found, err := s.teamRepo.GetMember(ctx, current.ID, userID); err != nil {
		return fmt.Errorf("get member: %w", err)
	} else if !found {
		return fmt.Errorf("%w: member=%s", ErrNotFound, userID)
	}

	if err := s.teamRepo.RemoveMember(ctx, current.ID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	return nil
}

func (s *TeamService) requireCaptain(ctx context.Context, teamID, callerID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	callerID = strings.TrimSpace(callerID)
	if teamID == "" || callerID == "" {
		return team.Team{}, fmt.Errorf("%w: team id and caller id are required", ErrInvalidInput)
	}

	current, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if current.CaptainID != callerID {
		return team.Team{}, fmt.Errorf("%w: only the team captain can do this", ErrForbidden)
	}

	return current, nil
}

func (s *TeamService) requireFreeShirtNumber(ctx context.Context, teamID, userID string, shirtNumber int) error {
	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.UserID != userID && m.ShirtNumber == shirtNumber {
			return fmt.Errorf("%w: shirt number %d is already taken", ErrAlreadyExists, shirtNumber)
		}
	}

	return nil
}
