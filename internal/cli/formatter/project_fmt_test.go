package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/ledger"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatProjectList_ShowsIDPrefixAndBudget(t *testing.T) {
	p := testutil.NewTestProject("Website Rebuild", testutil.WithBudget(120000))
	p.ID = "abcdef12-3456-7890-abcd-ef1234567890"
	p.ClientID = "acme"

	out := stripped(FormatProjectList([]*domain.Project{p}))

	assert.Contains(t, out, "abcdef12")
	assert.NotContains(t, out, "3456-7890")
	assert.Contains(t, out, "Website Rebuild")
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "120,000.00")
	assert.Contains(t, out, "2024-01-01 → 2024-12-31")
}

func TestFormatProjectList_PlaceholderWhenIDMissing(t *testing.T) {
	p := testutil.NewTestProject("Untitled")
	p.ID = ""

	out := stripped(FormatProjectList([]*domain.Project{p}))
	assert.Contains(t, out, "--")
}

func TestFormatProjectDetail_ListsLedgerEntries(t *testing.T) {
	p := testutil.NewTestProject("Ledgered",
		testutil.WithExpense("travel", 1200, testutil.Date(2024, 2, 1)),
		testutil.WithAllocation("team-a", 3000, testutil.Date(2024, 1, 1), nil),
		testutil.WithTeams("team-a"),
	)

	out := stripped(FormatProjectDetail(p, testutil.Epoch))

	assert.Contains(t, out, "EXPENSES")
	assert.Contains(t, out, "travel")
	assert.Contains(t, out, "1,200.00")
	assert.Contains(t, out, "3,000.00/mo")
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "team-a")
}

func TestFormatProjectDetail_EmptyLedger(t *testing.T) {
	p := testutil.NewTestProject("Bare")
	out := stripped(FormatProjectDetail(p, testutil.Epoch))
	assert.Contains(t, out, "none")
}

func TestFormatHealth(t *testing.T) {
	p := testutil.NewTestProject("Health", testutil.WithBudget(100000))
	s := ledger.Summary{
		ExpenseTotal:        60000,
		AccruedTotal:        30000,
		TotalSpend:          90000,
		RemainingBudget:     10000,
		SpentRatio:          0.9,
		MonthlyBurn:         3000,
		MonthsRemaining:     4,
		ProjectedFinalSpend: 102000,
		OverdueTaskIDs:      []string{"deadbeef-0000"},
		Health:              domain.HealthYellow,
		Reason:              ledger.ReasonNearBudget,
	}

	out := stripped(FormatHealth(p, s, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)))

	assert.Contains(t, out, "● YELLOW")
	assert.Contains(t, out, "close to the allocated budget")
	assert.Contains(t, out, "as of 2024-09-01")
	assert.Contains(t, out, " 90%")
	assert.Contains(t, out, "90,000.00")
	assert.Contains(t, out, "102,000.00")
	assert.Contains(t, out, "deadbeef")
}
