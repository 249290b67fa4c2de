package team

import (
	"context"
	"errors"
)

// ErrDuplicateMember is returned by AddMember when a store-level
// uniqueness guard fires under concurrency, after the use case checks
// reported the membership and shirt number free.
var ErrDuplicateMember = errors.New("member or shirt number already taken")

// Repository describes team persistence needs from use cases.
// Create inserts the team and its captain membership atomically; Delete
// removes memberships and the team atomically.
type Repository interface {
	Create(ctx context.Context, t Team, captain Member) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, t Team) error
	Delete(ctx context.Context, teamID string) error

	AddMember(ctx context.Context, m Member) error
	GetMember(ctx context.Context, teamID, userID string) (Member, bool, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	UpdateMember(ctx context.Context, m Member) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
}
