package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo. A project row owns its team,
// expense, allocation and deliverable rows; they are rewritten with it.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, name, client_id, status, start_date, end_date, budget_allocated, archived_at, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.ClientID,
		string(p.Status),
		formatDate(p.StartDate),
		formatDate(p.EndDate),
		p.BudgetAllocated,
		nullableTimeToString(p.ArchivedAt, timestampLayout),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return r.writeChildren(ctx, p)
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading project: %w", domain.NotFound("project", id))
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if !includeArchived {
		query += ` WHERE status != 'archived'`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		projects = append(projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	// Children are loaded after the cursor is closed; the pool has one
	// connection.
	for _, p := range projects {
		if err := r.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, client_id = ?, status = ?, start_date = ?, end_date = ?,
		budget_allocated = ?, archived_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.ClientID,
		string(p.Status),
		formatDate(p.StartDate),
		formatDate(p.EndDate),
		p.BudgetAllocated,
		nullableTimeToString(p.ArchivedAt, timestampLayout),
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating project: %w", domain.NotFound("project", p.ID))
	}

	for _, table := range []string{"project_teams", "budget_expenses", "resource_allocations", "deliverables"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE project_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return r.writeChildren(ctx, p)
}

// Delete removes the project. Tasks, groups and ledger rows cascade.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting project: %w", domain.NotFound("project", id))
	}
	return nil
}

func (r *SQLiteProjectRepo) writeChildren(ctx context.Context, p *domain.Project) error {
	for i, team := range p.TeamIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO project_teams (project_id, team_id, position) VALUES (?, ?, ?)`,
			p.ID, team, i); err != nil {
			return fmt.Errorf("inserting project team: %w", err)
		}
	}
	for i, e := range p.Expenses {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO budget_expenses (id, project_id, category, amount, spent_on, description, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, p.ID, e.Category, e.Amount, formatDate(e.Date), e.Description, i); err != nil {
			return fmt.Errorf("inserting expense: %w", err)
		}
	}
	for i, a := range p.ResourceAllocations {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO resource_allocations (id, project_id, team_id, monthly_rate, start_date, end_date, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, p.ID, a.TeamID, a.MonthlyRate, formatDate(a.StartDate),
			nullableTimeToString(a.EndDate, dateLayout), i); err != nil {
			return fmt.Errorf("inserting allocation: %w", err)
		}
	}
	for i, d := range p.Deliverables {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO deliverables (id, project_id, title, due_date, done, position) VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, p.ID, d.Title, nullableTimeToString(d.DueDate, dateLayout), boolToInt(d.Done), i); err != nil {
			return fmt.Errorf("inserting deliverable: %w", err)
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) loadChildren(ctx context.Context, p *domain.Project) error {
	var err error
	if p.TeamIDs, err = r.loadTeams(ctx, p.ID); err != nil {
		return err
	}
	if p.Expenses, err = r.loadExpenses(ctx, p.ID); err != nil {
		return err
	}
	if p.ResourceAllocations, err = r.loadAllocations(ctx, p.ID); err != nil {
		return err
	}
	if p.Deliverables, err = r.loadDeliverables(ctx, p.ID); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteProjectRepo) loadTeams(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT team_id FROM project_teams WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project teams: %w", err)
	}
	defer rows.Close()

	teams := []string{}
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, fmt.Errorf("scanning project team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *SQLiteProjectRepo) loadExpenses(ctx context.Context, projectID string) ([]domain.BudgetExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, spent_on, description FROM budget_expenses
		WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.BudgetExpense{}
	for rows.Next() {
		var e domain.BudgetExpense
		var spentOn string
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &spentOn, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		if e.Date, err = parseDate(spentOn, "spent_on"); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteProjectRepo) loadAllocations(ctx context.Context, projectID string) ([]domain.ResourceAllocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, team_id, monthly_rate, start_date, end_date FROM resource_allocations
		WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	allocs := []domain.ResourceAllocation{}
	for rows.Next() {
		var a domain.ResourceAllocation
		var start string
		var end sql.NullString
		if err := rows.Scan(&a.ID, &a.TeamID, &a.MonthlyRate, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning allocation: %w", err)
		}
		if a.StartDate, err = parseDate(start, "start_date"); err != nil {
			return nil, err
		}
		a.EndDate = parseNullableTime(end, dateLayout)
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

func (r *SQLiteProjectRepo) loadDeliverables(ctx context.Context, projectID string) ([]domain.Deliverable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, due_date, done FROM deliverables WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing deliverables: %w", err)
	}
	defer rows.Close()

	deliverables := []domain.Deliverable{}
	for rows.Next() {
		var d domain.Deliverable
		var due sql.NullString
		var done int
		if err := rows.Scan(&d.ID, &d.Title, &due, &done); err != nil {
			return nil, fmt.Errorf("scanning deliverable: %w", err)
		}
		d.DueDate = parseNullableTime(due, dateLayout)
		d.Done = intToBool(done)
		deliverables = append(deliverables, d)
	}
	return deliverables, rows.Err()
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status, start, end, createdAt, updatedAt string
	var archivedAt sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &p.ClientID, &status,
		&start, &end, &p.BudgetAllocated,
		&archivedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ProjectStatus(status)
	if p.StartDate, err = parseDate(start, "start_date"); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate(end, "end_date"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	p.ArchivedAt = parseNullableTime(archivedAt, timestampLayout)
	return &p, nil
}
