package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo users, teams, and venues into an empty
// database. A database that already has users is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return fmt.Errorf("count users for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (public_id, name, email, password_hash, created_at, updated_at)
VALUES (:public_id, :name, :email, :password_hash, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":     u.ID,
			"name":          u.Name,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"created_at":    u.CreatedAt,
			"updated_at":    u.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name, kit_color, captain_public_id, created_at, updated_at)
VALUES (:public_id, :name, :kit_color, :captain_public_id, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":         t.ID,
			"name":              t.Name,
			"kit_color":         t.KitColor,
			"captain_public_id": t.CaptainID,
			"created_at":        t.CreatedAt,
			"updated_at":        t.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, m := range memory.SeedMembers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO team_members (team_public_id, user_public_id, shirt_number, joined_at)
VALUES (:team_public_id, :user_public_id, :shirt_number, :joined_at)
ON CONFLICT (team_public_id, user_public_id) DO NOTHING`, map[string]any{
			"team_public_id": m.TeamID,
			"user_public_id": m.UserID,
			"shirt_number":   m.ShirtNumber,
			"joined_at":      m.JoinedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed member %s query: %w", m.UserID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed member %s: %w", m.UserID, err)
		}
	}

	for _, v := range memory.SeedVenues() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO venues (public_id, name, capacity, opens_at_min, closes_at_min, bookable, created_at, updated_at)
VALUES (:public_id, :name, :capacity, :opens_at_min, :closes_at_min, :bookable, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":     v.ID,
			"name":          v.Name,
			"capacity":      v.Capacity,
			"opens_at_min":  timeOfDayToMinutes(v.OpensAt),
			"closes_at_min": timeOfDayToMinutes(v.ClosesAt),
			"bookable":      v.Bookable,
			"created_at":    v.CreatedAt,
			"updated_at":    v.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed venue %s query: %w", v.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed venue %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap seed: %w", err)
	}

	return nil
}
