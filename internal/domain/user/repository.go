package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	Update(ctx context.Context, u User) error
}
