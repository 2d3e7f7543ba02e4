package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
)

type SQLiteTicketRepo struct {
	db db.DBTX
}

func NewSQLiteTicketRepo(conn db.DBTX) *SQLiteTicketRepo {
	return &SQLiteTicketRepo{db: conn}
}

const ticketColumns = `id, type, title, description, status, priority, project_id, task_id, milestone_id,
	reporter_id, resolution, resolved_by, resolved_at, created_at, updated_at`

func (r *SQLiteTicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (`+ticketColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		string(t.Type),
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableString(t.ProjectID),
		nullableString(t.TaskID),
		nullableString(t.MilestoneID),
		t.ReporterID,
		t.Resolution,
		t.ResolvedBy,
		nullableTimeToString(t.ResolvedAt, timestampLayout),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting ticket: %w", err)
	}
	return nil
}

func (r *SQLiteTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading ticket: %w", domain.NotFound("ticket", id))
	}
	return t, err
}

func (r *SQLiteTicketRepo) List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error) {
	var where []string
	var args []any
	if filter.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *SQLiteTicketRepo) Update(ctx context.Context, t *domain.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET title = ?, description = ?, status = ?, priority = ?, project_id = ?, task_id = ?,
		milestone_id = ?, resolution = ?, resolved_by = ?, resolved_at = ?, updated_at = ?
		WHERE id = ?`,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableString(t.ProjectID),
		nullableString(t.TaskID),
		nullableString(t.MilestoneID),
		t.Resolution,
		t.ResolvedBy,
		nullableTimeToString(t.ResolvedAt, timestampLayout),
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating ticket: %w", domain.NotFound("ticket", t.ID))
	}
	return nil
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	var typ, status, priority, createdAt, updatedAt string
	var projectID, taskID, milestoneID, resolvedAt sql.NullString

	err := row.Scan(
		&t.ID, &typ, &t.Title, &t.Description, &status, &priority,
		&projectID, &taskID, &milestoneID,
		&t.ReporterID, &t.Resolution, &t.ResolvedBy, &resolvedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning ticket: %w", err)
	}

	t.Type = domain.TicketType(typ)
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	t.ProjectID = stringPtr(projectID)
	t.TaskID = stringPtr(taskID)
	t.MilestoneID = stringPtr(milestoneID)
	t.ResolvedAt = parseNullableTime(resolvedAt, timestampLayout)
	if t.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
