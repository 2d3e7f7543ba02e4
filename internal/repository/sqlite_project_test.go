package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	end := testutil.Date(2024, 6, 30)
	due := testutil.Date(2024, 5, 1)
	proj := testutil.NewTestProject("Relaunch",
		testutil.WithTeams("design", "backend"),
		testutil.WithExpense("travel", 1200.5, testutil.Date(2024, 2, 3)),
		testutil.WithAllocation("design", 12000, testutil.Date(2024, 1, 1), nil),
		testutil.WithAllocation("backend", 8000, testutil.Date(2024, 2, 1), &end),
		testutil.WithDeliverable("Launch checklist", &due),
	)
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj, fetched)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepo_List_ExcludesArchived(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	testutil.Seed(t, repo,
		testutil.NewTestProject("Active1"),
		testutil.NewTestProject("Active2", testutil.WithExpense("fees", 10, testutil.Date(2024, 1, 2))),
		testutil.NewTestProject("Archived", testutil.WithProjectStatus(domain.ProjectArchived)),
	)

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	var expenses int
	for _, p := range all {
		expenses += len(p.Expenses)
	}
	assert.Equal(t, 1, expenses, "children loaded for listed projects")
}

func TestProjectRepo_UpdateRewritesLedger(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	proj := testutil.NewTestProject("Ledger", testutil.WithExpense("travel", 100, testutil.Date(2024, 1, 5)))
	testutil.Seed(t, repo, proj)

	proj.Name = "Ledger v2"
	proj.Expenses = append(proj.Expenses, domain.BudgetExpense{
		ID: "e2", Category: "licences", Amount: 50, Date: testutil.Date(2024, 1, 9),
	})
	closed := testutil.Date(2024, 3, 1)
	proj.ResourceAllocations = []domain.ResourceAllocation{{
		ID: "a1", TeamID: "ops", MonthlyRate: 500, StartDate: testutil.Date(2024, 1, 1), EndDate: &closed,
	}}
	proj.UpdatedAt = testutil.Date(2024, 1, 10)
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj, fetched)
}

func TestProjectRepo_Update_NotFound(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	err := repo.Update(context.Background(), testutil.NewTestProject("ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepo_DeleteCascades(t *testing.T) {
	conn := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(conn)
	tasks := NewSQLiteTaskRepo(conn)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed", testutil.WithExpense("x", 1, testutil.Date(2024, 1, 1)))
	testutil.Seed(t, projects, proj)
	task := testutil.NewTestTask(proj.ID, "orphan")
	testutil.Seed(t, tasks, task)

	require.NoError(t, projects.Delete(ctx, proj.ID))

	_, err := tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM budget_expenses`).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, projects.Delete(ctx, proj.ID), domain.ErrNotFound)
}
