package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// HealthPriority returns a sort priority (lower = more urgent).
func HealthPriority(h domain.HealthStatus) int {
	switch h {
	case domain.HealthRed:
		return 0
	case domain.HealthYellow:
		return 1
	default:
		return 2
	}
}

// CanonicalSort orders scored tasks deterministically:
// 1. Project health: red > yellow > green
// 2. Deadline: earliest first
// 3. Score: higher first
// 4. Project name: lexical ascending
// 5. Task ID: lexical ascending
func CanonicalSort(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]

		if ha, hb := HealthPriority(a.ProjectHealth), HealthPriority(b.ProjectHealth); ha != hb {
			return ha < hb
		}
		if da, db := a.Deadline(), b.Deadline(); !da.Equal(db) {
			return da.Before(db)
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ProjectName != b.ProjectName {
			return a.ProjectName < b.ProjectName
		}
		return a.Task.ID < b.Task.ID
	})
}

// Rank scores every candidate and returns at most limit of them in canonical
// order. A limit of zero or less returns all.
func Rank(candidates []Candidate, now time.Time, w Weights, limit int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Score(c, now, w))
	}
	CanonicalSort(scored)
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
