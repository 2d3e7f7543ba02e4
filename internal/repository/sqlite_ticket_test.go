package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteTicketRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	tk := testutil.NewTestTicket("Checkout broken", testutil.WithTicketProject("p1"))
	milestone := "m1"
	tk.MilestoneID = &milestone
	testutil.Seed(t, repo, tk)

	fetched, err := repo.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk, fetched)

	resolvedAt := testutil.Date(2024, 1, 3)
	tk.Status = domain.TicketResolved
	tk.Resolution = "patched"
	tk.ResolvedBy = "agent-2"
	tk.ResolvedAt = &resolvedAt
	require.NoError(t, repo.Update(ctx, tk))

	fetched, err = repo.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk, fetched)
}

func TestTicketRepo_ListFilters(t *testing.T) {
	repo := NewSQLiteTicketRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	testutil.Seed(t, repo,
		testutil.NewTestTicket("one", testutil.WithTicketProject("p1")),
		testutil.NewTestTicket("two", testutil.WithTicketProject("p1"), testutil.WithTicketStatus(domain.TicketWaiting)),
		testutil.NewTestTicket("three"),
	)

	all, err := repo.List(ctx, TicketFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	p1, err := repo.List(ctx, TicketFilter{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Len(t, p1, 2)

	waiting, err := repo.List(ctx, TicketFilter{ProjectID: "p1", Status: domain.TicketWaiting})
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "two", waiting[0].Title)
}

func TestTicketRepo_NotFound(t *testing.T) {
	repo := NewSQLiteTicketRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(context.Background(), testutil.NewTestTicket("x")), domain.ErrNotFound)
}
