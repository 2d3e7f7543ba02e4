package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

type SQLiteTaskGroupRepo struct {
	db db.DBTX
}

func NewSQLiteTaskGroupRepo(conn db.DBTX) *SQLiteTaskGroupRepo {
	return &SQLiteTaskGroupRepo{db: conn}
}

const groupColumns = `id, project_id, parent_id, name, created_at, updated_at`

func (r *SQLiteTaskGroupRepo) Create(ctx context.Context, g *domain.TaskGroup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.ProjectID, nullableString(g.ParentID), g.Name,
		formatTimestamp(g.CreatedAt), formatTimestamp(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting task group: %w", err)
	}
	return nil
}

func (r *SQLiteTaskGroupRepo) GetByID(ctx context.Context, id string) (*domain.TaskGroup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM task_groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading task group: %w", domain.NotFound("group", id))
	}
	return g, err
}

func (r *SQLiteTaskGroupRepo) ListByProject(ctx context.Context, projectID string) ([]domain.TaskGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM task_groups WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing task groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.TaskGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (r *SQLiteTaskGroupRepo) Update(ctx context.Context, g *domain.TaskGroup) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE task_groups SET parent_id = ?, name = ?, updated_at = ? WHERE id = ?`,
		nullableString(g.ParentID), g.Name, formatTimestamp(g.UpdatedAt), g.ID)
	if err != nil {
		return fmt.Errorf("updating task group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating task group: %w", domain.NotFound("group", g.ID))
	}
	return nil
}

func scanGroup(row rowScanner) (*domain.TaskGroup, error) {
	var g domain.TaskGroup
	var parentID sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&g.ID, &g.ProjectID, &parentID, &g.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task group: %w", err)
	}
	g.ParentID = stringPtr(parentID)

	var err error
	if g.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &g, nil
}
