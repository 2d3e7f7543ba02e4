package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ... ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Statuses are deliberately unconstrained: the task and ticket workflows are
// configuration, so the set of legal values is not known to the schema.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		client_id        TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'active'
		                 CHECK(status IN ('draft','active','archived')),
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		budget_allocated REAL NOT NULL CHECK(budget_allocated > 0),
		archived_at      TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,

	`CREATE TABLE IF NOT EXISTS project_teams (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		team_id    TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, team_id)
	)`,

	`CREATE TABLE IF NOT EXISTS budget_expenses (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		category    TEXT NOT NULL,
		amount      REAL NOT NULL CHECK(amount >= 0),
		spent_on    TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position    INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_expenses_project ON budget_expenses(project_id)`,

	`CREATE TABLE IF NOT EXISTS resource_allocations (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		team_id      TEXT NOT NULL,
		monthly_rate REAL NOT NULL CHECK(monthly_rate >= 0),
		start_date   TEXT NOT NULL,
		end_date     TEXT,
		position     INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_allocations_project ON resource_allocations(project_id)`,

	`CREATE TABLE IF NOT EXISTS deliverables (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		due_date   TEXT,
		done       INTEGER NOT NULL DEFAULT 0,
		position   INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS task_groups (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id  TEXT REFERENCES task_groups(id) ON DELETE SET NULL,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_groups_project ON task_groups(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		group_id     TEXT REFERENCES task_groups(id) ON DELETE SET NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		assignee     TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'medium'
		             CHECK(priority IN ('low','medium','high','urgent')),
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		due_date     TEXT,
		completed_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		task_id       TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		depends_on_id TEXT NOT NULL,
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, depends_on_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_deps_target ON task_dependencies(depends_on_id)`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL CHECK(type IN ('bug','feature','support','question')),
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		priority    TEXT NOT NULL DEFAULT 'medium'
		            CHECK(priority IN ('low','medium','high','urgent')),
		project_id  TEXT,
		task_id     TEXT,
		reporter_id TEXT NOT NULL,
		resolution  TEXT NOT NULL DEFAULT '',
		resolved_by TEXT NOT NULL DEFAULT '',
		resolved_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_project ON tickets(project_id)`,

	// Milestone links arrived after the first ticket schema.
	`ALTER TABLE tickets ADD COLUMN milestone_id TEXT`,
}
