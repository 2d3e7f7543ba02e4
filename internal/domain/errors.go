package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure returned by the engine unwraps to exactly one
// of these, so callers branch with errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrCircularDependency     = errors.New("circular dependency")
	ErrDependencyNotFound     = errors.New("dependency not found")
	ErrCrossProjectDependency = errors.New("cross-project dependency")
	ErrIncompleteDependencies = errors.New("incomplete dependencies")
	ErrDependentsExist        = errors.New("dependents exist")
	ErrImmutableState         = errors.New("immutable state")
	ErrFeatureDisabled        = errors.New("feature disabled")
	ErrNotFound               = errors.New("not found")
)

// Error carries a kind plus the machine-checkable details of a failure.
// IDs lists the offending entity identifiers where the kind has any, and
// Count holds a cardinality (e.g. number of dependents).
type Error struct {
	Kind  error
	Msg   string
	IDs   []string
	Count int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Validationf reports malformed input.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a workflow move not present in the table.
func InvalidTransition(from, to Status) error {
	return &Error{Kind: ErrInvalidTransition, Msg: fmt.Sprintf("%s -> %s", from, to)}
}

// CircularDependency reports a cycle. path is one witness cycle, first
// element repeated at the end.
func CircularDependency(path []string) error {
	return &Error{Kind: ErrCircularDependency, Msg: strings.Join(path, " -> "), IDs: path}
}

func DependencyNotFound(id string) error {
	return &Error{Kind: ErrDependencyNotFound, Msg: fmt.Sprintf("task %q", id), IDs: []string{id}}
}

func CrossProjectDependency(id, projectID string) error {
	return &Error{
		Kind: ErrCrossProjectDependency,
		Msg:  fmt.Sprintf("task %q belongs to project %q", id, projectID),
		IDs:  []string{id},
	}
}

func IncompleteDependencies(ids []string) error {
	return &Error{
		Kind:  ErrIncompleteDependencies,
		Msg:   strings.Join(ids, ", "),
		IDs:   ids,
		Count: len(ids),
	}
}

func DependentsExist(ids []string) error {
	return &Error{
		Kind:  ErrDependentsExist,
		Msg:   fmt.Sprintf("%d task(s) depend on this task", len(ids)),
		IDs:   ids,
		Count: len(ids),
	}
}

func ImmutableState(format string, args ...any) error {
	return &Error{Kind: ErrImmutableState, Msg: fmt.Sprintf(format, args...)}
}

func FeatureDisabled(gate string) error {
	return &Error{Kind: ErrFeatureDisabled, Msg: gate}
}

func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf("%s %q", entity, id), IDs: []string{id}}
}

// DetailsOf extracts the *Error behind err, if any.
func DetailsOf(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
