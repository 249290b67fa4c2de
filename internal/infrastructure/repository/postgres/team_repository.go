package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdayhq/matchday/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts the team and its captain membership in one transaction.
func (r *TeamRepository) Create(ctx context.Context, t team.Team, captain team.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const teamQuery = `
INSERT INTO teams (public_id, name, kit_color, captain_public_id, created_at, updated_at)
VALUES (:public_id, :name, :kit_color, :captain_public_id, :created_at, :updated_at)`

	sqlQuery, args, err := sqlx.Named(teamQuery, map[string]any{
		"public_id":         t.ID,
		"name":              t.Name,
		"kit_color":         t.KitColor,
		"captain_public_id": t.CaptainID,
		"created_at":        t.CreatedAt,
		"updated_at":        t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert team query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)
	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	if err := insertMember(ctx, tx, captain); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team create: %w", err)
	}

	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	const query = `
SELECT id, public_id, name, kit_color, captain_public_id, created_at, updated_at
FROM teams
WHERE public_id = $1`

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	const query = `
SELECT id, public_id, name, kit_color, captain_public_id, created_at, updated_at
FROM teams
ORDER BY name`

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	items := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}

	return items, nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team) error {
	const query = `
UPDATE teams
SET name = :name,
    kit_color = :kit_color,
    captain_public_id = :captain_public_id,
    updated_at = :updated_at
WHERE public_id = :public_id`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"public_id":         t.ID,
		"name":              t.Name,
		"kit_color":         t.KitColor,
		"captain_public_id": t.CaptainID,
		"updated_at":        t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind update team query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("update team: %w", err)
	}

	return nil
}

// Delete removes memberships and the team row in one transaction.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_members WHERE team_public_id = $1`, teamID); err != nil {
		return fmt.Errorf("delete team members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE public_id = $1`, teamID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team delete: %w", err)
	}

	return nil
}

func (r *TeamRepository) AddMember(ctx context.Context, m team.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for add member: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertMember(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add member: %w", err)
	}

	return nil
}

func (r *TeamRepository) GetMember(ctx context.Context, teamID, userID string) (team.Member, bool, error) {
	const query = `
SELECT team_public_id, user_public_id, shirt_number, joined_at
FROM team_members
WHERE team_public_id = $1
  AND user_public_id = $2`

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID, userID); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("get team member: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	const query = `
SELECT team_public_id, user_public_id, shirt_number, joined_at
FROM team_members
WHERE team_public_id = $1
ORDER BY shirt_number`

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, teamID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	members := make([]team.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}

	return members, nil
}

func (r *TeamRepository) UpdateMember(ctx context.Context, m team.Member) error {
	const query = `
UPDATE team_members
SET shirt_number = $1
WHERE team_public_id = $2
  AND user_public_id = $3`

	if _, err := r.db.ExecContext(ctx, query, m.ShirtNumber, m.TeamID, m.UserID); err != nil {
		return fmt.Errorf("update team member: %w", err)
	}

	return nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	const query = `
DELETE FROM team_members
WHERE team_public_id = $1
  AND user_public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, teamID, userID); err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}

	return nil
}

func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM team_members
	WHERE team_public_id = $1
	  AND user_public_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teamID, userID); err != nil {
		return false, fmt.Errorf("check team membership: %w", err)
	}

	return exists, nil
}

func insertMember(ctx context.Context, tx *sqlx.Tx, m team.Member) error {
	const query = `
INSERT INTO team_members (team_public_id, user_public_id, shirt_number, joined_at)
VALUES (:team_public_id, :user_public_id, :shirt_number, :joined_at)`

	sqlQuery, args, err := sqlx.Named(query, map[string]any{
		"team_public_id": m.TeamID,
		"user_public_id": m.UserID,
		"shirt_number":   m.ShirtNumber,
		"joined_at":      m.JoinedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert member query: %w", err)
	}
	sqlQuery = tx.Rebind(sqlQuery)

	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: member=%s team=%s", team.ErrDuplicateMember, m.UserID, m.TeamID)
		}
		return fmt.Errorf("insert member: %w", err)
	}

	return nil
}
