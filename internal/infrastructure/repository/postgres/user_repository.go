package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	const query = `
INSERT INTO users (public_id, name, email, password_hash, gender, birth_date, phone, created_at, updated_at)
VALUES (:public_id, :name, :email, :password_hash, :gender, :birth_date, :phone, :created_at, :updated_at)`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":     u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"gender":        nullString(u.Gender),
		"birth_date":    u.BirthDate,
		"phone":         nullString(u.Phone),
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert user query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s already exists: %w", u.ID, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	const query = `
SELECT id, public_id, name, email, password_hash, gender, birth_date, phone, created_at, updated_at
FROM users
WHERE public_id = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	const query = `
SELECT id, public_id, name, email, password_hash, gender, birth_date, phone, created_at, updated_at
FROM users
WHERE lower(email) = lower($1)`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by email: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	const query = `
UPDATE users
SET name = :name,
    email = :email,
    password_hash = :password_hash,
    gender = :gender,
    birth_date = :birth_date,
    phone = :phone,
    updated_at = :updated_at
WHERE public_id = :public_id`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":     u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"gender":        nullString(u.Gender),
		"birth_date":    u.BirthDate,
		"phone":         nullString(u.Phone),
		"updated_at":    u.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind update user query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}
