// Package importer reads a project plan file (YAML, or JSON as its subset)
// describing a project with its groups and tasks, validates it as a whole,
// and converts it into lifecycle drafts ordered for creation.
package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is the top-level structure of an import file. Groups and tasks refer
// to each other by file-local refs, not by ID.
type Plan struct {
	Project  ProjectSpec `yaml:"project"`
	Defaults *Defaults   `yaml:"defaults,omitempty"`
	Groups   []GroupSpec `yaml:"groups,omitempty"`
	Tasks    []TaskSpec  `yaml:"tasks,omitempty"`
}

type ProjectSpec struct {
	Name         string            `yaml:"name"`
	ClientID     string            `yaml:"client_id,omitempty"`
	StartDate    string            `yaml:"start_date"`
	EndDate      string            `yaml:"end_date"`
	Budget       float64           `yaml:"budget"`
	Teams        []string          `yaml:"teams,omitempty"`
	Deliverables []DeliverableSpec `yaml:"deliverables,omitempty"`
}

type DeliverableSpec struct {
	Title   string  `yaml:"title"`
	DueDate *string `yaml:"due_date,omitempty"`
}

// Defaults cascade to tasks that leave the field empty.
type Defaults struct {
	Priority string `yaml:"priority,omitempty"`
	Assignee string `yaml:"assignee,omitempty"`
}

// GroupSpec is a task group. A parent must appear earlier in the list.
type GroupSpec struct {
	Ref       string  `yaml:"ref"`
	ParentRef *string `yaml:"parent_ref,omitempty"`
	Name      string  `yaml:"name"`
}

type TaskSpec struct {
	Ref         string   `yaml:"ref"`
	GroupRef    *string  `yaml:"group_ref,omitempty"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Assignee    string   `yaml:"assignee,omitempty"`
	Priority    string   `yaml:"priority,omitempty"`
	StartDate   string   `yaml:"start_date"`
	EndDate     string   `yaml:"end_date"`
	DueDate     *string  `yaml:"due_date,omitempty"`
	DependsOn   []string `yaml:"depends_on,omitempty"`
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlan(data)
}

func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &plan, nil
}
