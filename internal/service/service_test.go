package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/ledger"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = testutil.Date(2024, 3, 1)

func fixedClock() time.Time { return fixedNow }

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

type fixture struct {
	projects ProjectService
	tasks    TaskService
	tickets  TicketService
	observed *recordingObserver
}

func setup(t *testing.T, opts ...func(*lifecycle.Settings)) fixture {
	t.Helper()
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	settings := lifecycle.DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	m := lifecycle.NewManager(settings)
	obs := &recordingObserver{}
	return fixture{
		projects: NewProjectService(uow, m, fixedClock, obs),
		tasks:    NewTaskService(uow, m, fixedClock, obs),
		tickets:  NewTicketService(uow, m, fixedClock, obs),
		observed: obs,
	}
}

func enableTicketing(s *lifecycle.Settings) { s.Features.ClientTicketingEnabled = true }

func createProject(t *testing.T, f fixture) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), lifecycle.ProjectDraft{
		Name:            "Relaunch",
		StartDate:       testutil.Date(2024, 1, 1),
		EndDate:         testutil.Date(2024, 12, 31),
		BudgetAllocated: 100000,
		TeamIDs:         []string{"design"},
	})
	require.NoError(t, err)
	return p
}

func createTask(t *testing.T, f fixture, projectID, title string, deps ...string) *domain.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), projectID, lifecycle.TaskDraft{
		Title:        title,
		StartDate:    testutil.Date(2024, 2, 1),
		EndDate:      testutil.Date(2024, 2, 20),
		Dependencies: deps,
	})
	require.NoError(t, err)
	return task
}

func TestProjectService_Lifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := createProject(t, f)

	fetched, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, fetched)

	budget := 120000.0
	updated, err := f.projects.Update(ctx, p.ID, lifecycle.ProjectPatch{BudgetAllocated: &budget})
	require.NoError(t, err)
	assert.Equal(t, 120000.0, updated.BudgetAllocated)

	assert.ErrorIs(t, f.projects.Delete(ctx, p.ID), domain.ErrInvalidTransition)

	archived, err := f.projects.Archive(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectArchived, archived.Status)

	name := "nope"
	_, err = f.projects.Update(ctx, p.ID, lifecycle.ProjectPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrImmutableState)
	stored, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Relaunch", stored.Name, "rejected update not persisted")

	active, err := f.projects.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, f.projects.Delete(ctx, p.ID))
	_, err = f.projects.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_Health(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := createProject(t, f)

	_, err := f.projects.RecordExpense(ctx, p.ID, lifecycle.ExpenseDraft{
		Category: "hardware", Amount: 66000, Date: testutil.Date(2024, 2, 1),
	})
	require.NoError(t, err)
	withAlloc, err := f.projects.AddAllocation(ctx, p.ID, lifecycle.AllocationDraft{
		TeamID: "design", MonthlyRate: 12000, StartDate: testutil.Date(2024, 1, 1),
	})
	require.NoError(t, err)

	report, err := f.projects.Health(ctx, p.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, report.AsOf)
	assert.InDelta(t, 90000, report.Summary.TotalSpend, 1e-9)
	assert.Equal(t, domain.HealthYellow, report.Summary.Health)
	assert.Equal(t, ledger.ReasonNearBudget, report.Summary.Reason)

	allocID := withAlloc.ResourceAllocations[0].ID
	_, err = f.projects.CloseAllocation(ctx, p.ID, allocID, testutil.Date(2024, 2, 1))
	require.NoError(t, err)
	report, err = f.projects.Health(ctx, p.ID, fixedNow)
	require.NoError(t, err)
	assert.InDelta(t, 78000, report.Summary.TotalSpend, 1e-9)
}

func TestProjectService_CreateRollsBackPartialWrites(t *testing.T) {
	conn := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: conn, FailOn: 2, Err: boom}
	svc := NewProjectService(uow, lifecycle.NewManager(lifecycle.DefaultSettings()), fixedClock)

	_, err := svc.Create(context.Background(), lifecycle.ProjectDraft{
		Name: "x", StartDate: testutil.Date(2024, 1, 1), EndDate: testutil.Date(2024, 2, 1),
		BudgetAllocated: 1, TeamIDs: []string{"a", "b"},
	})
	require.ErrorIs(t, err, boom)

	list, err := repository.NewSQLiteProjectRepo(conn).List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskService_DependencyRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := createProject(t, f)

	design := createTask(t, f, p.ID, "design")
	build := createTask(t, f, p.ID, "build", design.ID)

	// Closing the loop design -> build -> design is rejected and not stored.
	deps := []string{build.ID}
	_, err := f.tasks.Update(ctx, design.ID, lifecycle.TaskPatch{Dependencies: &deps})
	require.ErrorIs(t, err, domain.ErrCircularDependency)
	stored, err := f.tasks.GetByID(ctx, design.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Dependencies)

	_, err = f.tasks.SetStatus(ctx, build.ID, domain.TaskInProgress)
	require.NoError(t, err)
	_, err = f.tasks.SetStatus(ctx, build.ID, domain.TaskDone)
	assert.ErrorIs(t, err, domain.ErrIncompleteDependencies)

	ready, err := f.tasks.Ready(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, design.ID, ready[0].ID)

	assert.ErrorIs(t, f.tasks.Delete(ctx, design.ID), domain.ErrDependentsExist)

	for _, s := range []domain.Status{domain.TaskInProgress, domain.TaskDone} {
		_, err = f.tasks.SetStatus(ctx, design.ID, s)
		require.NoError(t, err)
	}
	done, err := f.tasks.SetStatus(ctx, build.ID, domain.TaskDone)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, fixedNow, *done.CompletedAt)

	require.NoError(t, f.tasks.Delete(ctx, build.ID))
	tasks, err := f.tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskService_CrossProjectDependency(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	home := createProject(t, f)
	other, err := f.projects.Create(ctx, lifecycle.ProjectDraft{
		Name:            "Other",
		StartDate:       testutil.Date(2024, 1, 1),
		EndDate:         testutil.Date(2024, 12, 31),
		BudgetAllocated: 5000,
	})
	require.NoError(t, err)
	foreign := createTask(t, f, other.ID, "foreign")

	_, err = f.tasks.Create(ctx, home.ID, lifecycle.TaskDraft{
		Title:        "needs foreign",
		StartDate:    testutil.Date(2024, 2, 1),
		EndDate:      testutil.Date(2024, 2, 20),
		Dependencies: []string{foreign.ID},
	})
	require.ErrorIs(t, err, domain.ErrCrossProjectDependency)
	assert.NotErrorIs(t, err, domain.ErrDependencyNotFound)

	local := createTask(t, f, home.ID, "local")
	deps := []string{foreign.ID}
	_, err = f.tasks.Update(ctx, local.ID, lifecycle.TaskPatch{Dependencies: &deps})
	require.ErrorIs(t, err, domain.ErrCrossProjectDependency)

	deps = []string{"ghost"}
	_, err = f.tasks.Update(ctx, local.ID, lifecycle.TaskPatch{Dependencies: &deps})
	require.ErrorIs(t, err, domain.ErrDependencyNotFound)

	stored, err := f.tasks.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Dependencies)
}

func TestProjectService_HealthUsesCalendarDay(t *testing.T) {
	ctx := context.Background()
	morning := func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	m := lifecycle.NewManager(lifecycle.DefaultSettings())
	projects := NewProjectService(uow, m, morning)
	tasks := NewTaskService(uow, m, morning)

	p, err := projects.Create(ctx, lifecycle.ProjectDraft{
		Name:            "Relaunch",
		StartDate:       testutil.Date(2024, 1, 1),
		EndDate:         testutil.Date(2024, 12, 31),
		BudgetAllocated: 100000,
	})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, p.ID, lifecycle.TaskDraft{
		Title:     "ends today",
		StartDate: testutil.Date(2024, 3, 1),
		EndDate:   testutil.Date(2024, 3, 10),
	})
	require.NoError(t, err)

	report, err := projects.Health(ctx, p.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2024, 3, 10), report.AsOf)
	assert.Equal(t, domain.HealthGreen, report.Summary.Health)
	assert.Equal(t, ledger.ReasonOnTrack, report.Summary.Reason)

	report, err = projects.Health(ctx, p.ID, time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, ledger.ReasonOverdueTasks, report.Summary.Reason)

	ranked, err := tasks.Next(ctx, p.ID, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, domain.HealthGreen, ranked[0].ProjectHealth)
}

func TestTaskService_TodoToDoneRejected(t *testing.T) {
	f := setup(t)
	p := createProject(t, f)
	task := createTask(t, f, p.ID, "x")

	_, err := f.tasks.SetStatus(context.Background(), task.ID, domain.TaskDone)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTaskService_Groups(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := createProject(t, f)

	phase, err := f.tasks.CreateGroup(ctx, p.ID, lifecycle.GroupDraft{Name: "Phase 1"})
	require.NoError(t, err)
	sub, err := f.tasks.CreateGroup(ctx, p.ID, lifecycle.GroupDraft{Name: "Mockups", ParentID: &phase.ID})
	require.NoError(t, err)

	_, err = f.tasks.MoveGroup(ctx, phase.ID, &sub.ID)
	assert.ErrorIs(t, err, domain.ErrCircularDependency)

	task, err := f.tasks.Create(ctx, p.ID, lifecycle.TaskDraft{
		Title: "grouped", GroupID: &sub.ID,
		StartDate: testutil.Date(2024, 2, 1), EndDate: testutil.Date(2024, 2, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, *task.GroupID)

	missing := "ghost"
	_, err = f.tasks.Update(ctx, task.ID, lifecycle.TaskPatch{GroupID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	groups, err := f.tasks.ListGroups(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestTicketService(t *testing.T) {
	f := setup(t, enableTicketing)
	ctx := context.Background()

	tk, err := f.tickets.Create(ctx, lifecycle.TicketDraft{Type: domain.TicketBug, Title: "500 on login", ReporterID: "c1"})
	require.NoError(t, err)

	_, err = f.tickets.Transition(ctx, tk.ID, domain.TicketWaiting)
	require.NoError(t, err)
	resolved, err := f.tickets.Resolve(ctx, tk.ID, lifecycle.Resolution{Text: "fixed", ResolvedBy: "agent"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketResolved, resolved.Status)

	stored, err := f.tickets.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, resolved, stored)

	waiting, err := f.tickets.List(ctx, repository.TicketFilter{Status: domain.TicketWaiting})
	require.NoError(t, err)
	assert.Empty(t, waiting)
}

func TestTicketService_GateClosed(t *testing.T) {
	f := setup(t)
	_, err := f.tickets.Create(context.Background(), lifecycle.TicketDraft{Type: domain.TicketBug, Title: "x", ReporterID: "c"})
	assert.ErrorIs(t, err, domain.ErrFeatureDisabled)
}

func TestObserver_RecordsOutcome(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := createProject(t, f)
	_, _ = f.projects.Archive(ctx, p.ID)
	_, _ = f.projects.Archive(ctx, p.ID)

	require.Len(t, f.observed.events, 3)
	assert.Equal(t, "create-project", f.observed.events[0].Name)
	assert.True(t, f.observed.events[1].Success)
	last := f.observed.events[2]
	assert.False(t, last.Success)
	assert.ErrorIs(t, last.Err, domain.ErrImmutableState)
	assert.Equal(t, p.ID, last.Fields["project_id"])
}

func TestLogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "ok", Success: true})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "rule", Err: domain.ImmutableState("archived")})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "io", Err: errors.New("disk")})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "error_kind=\"immutable state\"")
	assert.Contains(t, out, "level=ERROR")
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

var _ db.UnitOfWork = (*testutil.FailOnNthExecUoW)(nil)

func TestTaskService_NextRanksAcrossProjects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	calm := createProject(t, f)
	hot, err := f.projects.Create(ctx, lifecycle.ProjectDraft{
		Name:            "Overspent",
		StartDate:       testutil.Date(2024, 1, 1),
		EndDate:         testutil.Date(2024, 12, 31),
		BudgetAllocated: 1000,
	})
	require.NoError(t, err)
	_, err = f.projects.RecordExpense(ctx, hot.ID, lifecycle.ExpenseDraft{
		Category: "travel", Amount: 1500, Date: testutil.Date(2024, 2, 1),
	})
	require.NoError(t, err)

	base := createTask(t, f, calm.ID, "calm-base")
	createTask(t, f, calm.ID, "calm-blocked", base.ID)
	createTask(t, f, hot.ID, "hot-task")

	ranked, err := f.tasks.Next(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, ranked, 2, "blocked task is not ready")
	assert.Equal(t, "hot-task", ranked[0].Task.Title)
	assert.Equal(t, domain.HealthRed, ranked[0].ProjectHealth)
	assert.Equal(t, "calm-base", ranked[1].Task.Title)

	only, err := f.tasks.Next(ctx, calm.ID, 5)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "Relaunch", only[0].ProjectName)

	_, err = f.tasks.Next(ctx, "missing", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogUseCaseObserver_ErrorDetails(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "update-task",
		Err:  fmt.Errorf("task t1: %w", domain.CircularDependency([]string{"t1", "t2", "t1"})),
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "error_ids=t1,t2,t1")
	assert.NotContains(t, out, "error_count")
}
