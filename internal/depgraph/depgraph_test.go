package depgraph

import (
	"errors"
	"strconv"
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id, projectID string, deps ...string) domain.Task {
	return domain.Task{ID: id, ProjectID: projectID, Status: domain.TaskTodo, Dependencies: deps}
}

func TestValidate_NoDependencies(t *testing.T) {
	r := Validate(task("a", "p1"), nil)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.NoError(t, r.Err())
}

func TestValidate_ThreeNodeCycle(t *testing.T) {
	all := []domain.Task{
		task("A", "p1", "B"),
		task("B", "p1", "C"),
		task("C", "p1", "A"),
	}
	for _, candidate := range all {
		r := Validate(candidate, all)
		require.False(t, r.Valid, "candidate=%s", candidate.ID)
		require.Len(t, r.Errors, 1)
		assert.True(t, errors.Is(r.Errors[0], domain.ErrCircularDependency))

		details, ok := domain.DetailsOf(r.Errors[0])
		require.True(t, ok)
		assert.Equal(t, candidate.ID, details.IDs[0], "witness starts at the candidate")
		assert.Equal(t, details.IDs[0], details.IDs[len(details.IDs)-1])
	}
}

func TestValidate_SelfDependency(t *testing.T) {
	r := Validate(task("a", "p1", "a"), nil)
	require.False(t, r.Valid)
	assert.True(t, errors.Is(r.Err(), domain.ErrCircularDependency))
}

func TestValidate_MissingDependencyPerID(t *testing.T) {
	r := Validate(task("a", "p1", "x", "y", "x"), nil)
	require.False(t, r.Valid)
	require.Len(t, r.Errors, 2, "duplicates reported once")
	for _, err := range r.Errors {
		assert.True(t, errors.Is(err, domain.ErrDependencyNotFound))
	}
}

func TestValidate_CrossProject(t *testing.T) {
	all := []domain.Task{task("b", "p2")}
	r := Validate(task("a", "p1", "b"), all)
	require.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.True(t, errors.Is(r.Errors[0], domain.ErrCrossProjectDependency))
}

func TestValidate_CrossProjectEdgesIgnoredForCycles(t *testing.T) {
	// b (p2) depends on a, but cross-project edges never form part of a cycle.
	all := []domain.Task{task("b", "p2", "a")}
	r := Validate(task("a", "p1", "b"), all)
	require.Len(t, r.Errors, 1)
	assert.True(t, errors.Is(r.Errors[0], domain.ErrCrossProjectDependency))
}

func TestValidate_CandidateReplacesStaleCopy(t *testing.T) {
	// Stored copy of a depends on b, and b depends on a. The candidate drops
	// the edge, so the graph is acyclic again.
	all := []domain.Task{
		task("a", "p1", "b"),
		task("b", "p1", "a"),
	}
	r := Validate(task("a", "p1"), all)
	assert.True(t, r.Valid)
}

func TestValidate_DiamondIsAcyclic(t *testing.T) {
	all := []domain.Task{
		task("top", "p1", "left", "right"),
		task("left", "p1", "bottom"),
		task("right", "p1", "bottom"),
		task("bottom", "p1"),
	}
	assert.True(t, Validate(all[0], all).Valid)
}

func TestValidate_LongChainDoesNotRecurse(t *testing.T) {
	const n = 50000
	all := make([]domain.Task, n)
	all[0] = task("t0", "p1")
	for i := 1; i < n; i++ {
		all[i] = task(idOf(i), "p1", idOf(i-1))
	}
	assert.True(t, Validate(all[n-1], all).Valid)

	closing := all[0]
	closing.Dependencies = []string{idOf(n - 1)}
	assert.False(t, Validate(closing, all).Valid)
}

func TestDependents(t *testing.T) {
	all := []domain.Task{
		task("a", "p1"),
		task("b", "p1", "a"),
		task("c", "p1", "a", "b"),
		task("d", "p1"),
	}
	deps := Dependents("a", all)
	require.Len(t, deps, 2)
	assert.Equal(t, "b", deps[0].ID)
	assert.Equal(t, "c", deps[1].ID)
	assert.Empty(t, Dependents("d", all))
}

func TestCheckDeletable(t *testing.T) {
	all := []domain.Task{task("a", "p1"), task("b", "p1", "a")}
	err := CheckDeletable("a", all)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependentsExist))
	details, _ := domain.DetailsOf(err)
	assert.Equal(t, 1, details.Count)
	assert.Equal(t, []string{"b"}, details.IDs)

	assert.NoError(t, CheckDeletable("b", all))
}

func TestCheckCompletable(t *testing.T) {
	done := task("a", "p1")
	done.Status = domain.TaskDone
	pending := task("b", "p1")
	all := []domain.Task{done, pending}

	assert.NoError(t, CheckCompletable(task("c", "p1", "a"), all, domain.TaskDone))

	err := CheckCompletable(task("c", "p1", "a", "b", "ghost"), all, domain.TaskDone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompleteDependencies))
	details, _ := domain.DetailsOf(err)
	assert.Equal(t, []string{"b", "ghost"}, details.IDs)
}

func TestCheckCompletable_DirectOnly(t *testing.T) {
	// b is done but its own dependency a is not; c only needs b.
	a := task("a", "p1")
	b := task("b", "p1", "a")
	b.Status = domain.TaskDone
	all := []domain.Task{a, b}
	assert.NoError(t, CheckCompletable(task("c", "p1", "b"), all, domain.TaskDone))
}

func TestReady(t *testing.T) {
	a := task("a", "p1")
	a.Status = domain.TaskDone
	all := []domain.Task{a, task("b", "p1", "a"), task("c", "p1", "b")}
	open := func(s domain.Status) bool { return s != domain.TaskDone }

	ready := Ready(all, domain.TaskDone, open)
	require.Len(t, ready, 1)
	assert.Equal(t, "b", ready[0].ID)
}

func TestTopoOrder(t *testing.T) {
	all := []domain.Task{
		task("c", "p1", "b"),
		task("a", "p1"),
		task("b", "p1", "a"),
		task("z", "p1"),
	}
	ordered, err := TopoOrder(all)
	require.NoError(t, err)
	var ids []string
	for _, o := range ordered {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "z"}, ids)
}

func TestTopoOrder_Cycle(t *testing.T) {
	all := []domain.Task{
		task("x", "p1", "a"),
		task("a", "p1", "b"),
		task("b", "p1", "a"),
	}
	_, err := TopoOrder(all)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCircularDependency))
}

func idOf(i int) string {
	return "t" + strconv.Itoa(i)
}
