package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo. Dependency edges live in
// task_dependencies and are rewritten with the task.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, group_id, title, description, assignee, status, priority,
	start_date, end_date, due_date, completed_at, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.GroupID),
		t.Title,
		t.Description,
		t.Assignee,
		string(t.Status),
		string(t.Priority),
		formatDate(t.StartDate),
		formatDate(t.EndDate),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, timestampLayout),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return r.writeDependencies(ctx, t)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading task: %w", domain.NotFound("task", id))
	}
	if err != nil {
		return nil, err
	}
	deps, err := r.dependencies(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	t.Dependencies = nonNil(deps[t.ID])
	return t, nil
}

// ListByProject returns the project's tasks in creation order.
func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	var tasks []domain.Task
	var ids []string
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, *t)
		ids = append(ids, t.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	deps, err := r.dependencies(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Dependencies = nonNil(deps[tasks[i].ID])
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET group_id = ?, title = ?, description = ?, assignee = ?, status = ?, priority = ?,
		start_date = ?, end_date = ?, due_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(t.GroupID),
		t.Title,
		t.Description,
		t.Assignee,
		string(t.Status),
		string(t.Priority),
		formatDate(t.StartDate),
		formatDate(t.EndDate),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, timestampLayout),
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating task: %w", domain.NotFound("task", t.ID))
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing task dependencies: %w", err)
	}
	return r.writeDependencies(ctx, t)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting task: %w", domain.NotFound("task", id))
	}
	return nil
}

func (r *SQLiteTaskRepo) writeDependencies(ctx context.Context, t *domain.Task) error {
	for i, dep := range t.Dependencies {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id, position) VALUES (?, ?, ?)`,
			t.ID, dep, i); err != nil {
			return fmt.Errorf("inserting task dependency: %w", err)
		}
	}
	return nil
}

// dependencies loads the edge lists of the given tasks keyed by task ID.
func (r *SQLiteTaskRepo) dependencies(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	want := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		want[id] = true
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT d.task_id, d.depends_on_id FROM task_dependencies d
		JOIN tasks t ON t.id = d.task_id
		WHERE t.project_id = (SELECT project_id FROM tasks WHERE id = ?)
		ORDER BY d.task_id, d.position`, taskIDs[0])
	if err != nil {
		return nil, fmt.Errorf("listing task dependencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, dep string
		if err := rows.Scan(&taskID, &dep); err != nil {
			return nil, fmt.Errorf("scanning task dependency: %w", err)
		}
		if want[taskID] {
			out[taskID] = append(out[taskID], dep)
		}
	}
	return out, rows.Err()
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var groupID, dueDate, completedAt sql.NullString
	var status, priority, start, end, createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.ProjectID, &groupID, &t.Title, &t.Description, &t.Assignee,
		&status, &priority, &start, &end, &dueDate, &completedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.GroupID = stringPtr(groupID)
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	if t.StartDate, err = parseDate(start, "start_date"); err != nil {
		return nil, err
	}
	if t.EndDate, err = parseDate(end, "end_date"); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	t.DueDate = parseNullableTime(dueDate, dateLayout)
	t.CompletedAt = parseNullableTime(completedAt, timestampLayout)
	return &t, nil
}
