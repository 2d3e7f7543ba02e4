package ledger

import (
	"math"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// Window is the date range a project bills within.
type Window struct {
	Start time.Time
	End   time.Time
}

// ProjectWindow returns p's billing window.
func ProjectWindow(p *domain.Project) Window {
	return Window{Start: p.StartDate, End: p.EndDate}
}

// Accrue returns the cost recognized for alloc between its billing start and
// asOf, clipped to window. Returns 0 when the clipped range is empty.
func Accrue(alloc domain.ResourceAllocation, window Window, asOf time.Time) float64 {
	start := latest(alloc.StartDate, window.Start)

	end := asOf
	if alloc.EndDate != nil {
		end = earliest(end, *alloc.EndDate)
	}
	end = earliest(end, window.End)

	if !end.After(start) {
		return 0
	}
	return math.Max(0, ElapsedMonths(start, end)*alloc.MonthlyRate)
}

// ElapsedMonths approximates the months between start and end from calendar
// fields, counting a day as 1/30 of a month regardless of month length.
// Financial figures depend on this exact formula.
func ElapsedMonths(start, end time.Time) float64 {
	sy, sm, sd := start.UTC().Date()
	ey, em, ed := end.UTC().Date()
	return float64((ey-sy)*12) + float64(em-sm) + float64(ed-sd)/30
}

// WholeMonths counts the complete calendar months from `from` to `to`,
// clamped at 0. A month is complete once the day of month is reached again.
func WholeMonths(from, to time.Time) int {
	fy, fm, fd := from.UTC().Date()
	ty, tm, td := to.UTC().Date()
	months := (ty-fy)*12 + int(tm-fm)
	if td < fd {
		months--
	}
	return max(months, 0)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
