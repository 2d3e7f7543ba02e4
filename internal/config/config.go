// Package config loads meridian's settings from an optional YAML file plus
// MERIDIAN_* environment overrides and turns them into lifecycle settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/workflow"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix  = "MERIDIAN"
	EnvConfig  = "MERIDIAN_CONFIG"
	configName = "meridian"
)

// Workflow is the file form of a workflow.Config.
type Workflow struct {
	Statuses         []string            `mapstructure:"statuses" yaml:"statuses"`
	Transitions      map[string][]string `mapstructure:"transitions" yaml:"transitions"`
	DefaultStatus    string              `mapstructure:"default_status" yaml:"default_status"`
	CompletionStatus string              `mapstructure:"completion_status" yaml:"completion_status"`
}

type Features struct {
	ClientTicketingEnabled bool `mapstructure:"client_ticketing_enabled" yaml:"client_ticketing_enabled"`
}

type Config struct {
	TaskWorkflow   Workflow `mapstructure:"task_workflow" yaml:"task_workflow"`
	TicketWorkflow Workflow `mapstructure:"ticket_workflow" yaml:"ticket_workflow"`
	Features       Features `mapstructure:"features" yaml:"features"`
	Database       string   `mapstructure:"database" yaml:"database"`
	LogUseCases    bool     `mapstructure:"log_use_cases" yaml:"log_use_cases"`

	// Source is the file the configuration was read from; empty when only
	// defaults and environment were used.
	Source string `mapstructure:"-" yaml:"-"`
}

// DefaultDBPath returns ~/.meridian/meridian.db, or a relative path when the
// home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".meridian", "meridian.db")
	}
	return filepath.Join(home, ".meridian", "meridian.db")
}

func fromWorkflow(c workflow.Config) Workflow {
	w := Workflow{
		DefaultStatus:    string(c.DefaultStatus),
		CompletionStatus: string(c.CompletionStatus),
		Transitions:      make(map[string][]string, len(c.Transitions)),
	}
	for _, s := range c.Statuses {
		w.Statuses = append(w.Statuses, string(s))
	}
	for from, tos := range c.Transitions {
		next := make([]string, 0, len(tos))
		for _, to := range tos {
			next = append(next, string(to))
		}
		w.Transitions[string(from)] = next
	}
	return w
}

// toConfig folds every status name to lower case to agree with the map keys
// viper hands back.
func (w Workflow) toConfig() workflow.Config {
	status := func(s string) domain.Status { return domain.Status(strings.ToLower(s)) }
	c := workflow.Config{
		DefaultStatus:    status(w.DefaultStatus),
		CompletionStatus: status(w.CompletionStatus),
		Transitions:      make(map[domain.Status][]domain.Status, len(w.Transitions)),
	}
	for _, s := range w.Statuses {
		c.Statuses = append(c.Statuses, status(s))
	}
	for from, tos := range w.Transitions {
		next := make([]domain.Status, 0, len(tos))
		for _, to := range tos {
			next = append(next, status(to))
		}
		c.Transitions[status(from)] = next
	}
	return c
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		TaskWorkflow:   fromWorkflow(workflow.DefaultTaskConfig()),
		TicketWorkflow: fromWorkflow(workflow.DefaultTicketConfig()),
		Database:       DefaultDBPath(),
	}
}

// Load reads configuration. An explicit path must exist; otherwise
// MERIDIAN_CONFIG is consulted, then meridian.yaml in the working directory
// and in ~/.meridian. Missing search-path files fall back to defaults.
//
// A workflow section in the file replaces the built-in workflow as a whole.
// Status names are case-insensitive.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("database", cfg.Database)
	v.SetDefault("log_use_cases", false)
	v.SetDefault("features.client_ticketing_enabled", false)

	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv("database", EnvPrefix+"_DB")
	_ = v.BindEnv("features.client_ticketing_enabled", EnvPrefix+"_CLIENT_TICKETING_ENABLED")
	_ = v.BindEnv("log_use_cases", EnvPrefix+"_LOG_USE_CASES")

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".meridian"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	} else {
		cfg.Source = v.ConfigFileUsed()
	}

	var file Config
	if err := v.Unmarshal(&file); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if v.IsSet("task_workflow") {
		cfg.TaskWorkflow = file.TaskWorkflow
	}
	if v.IsSet("ticket_workflow") {
		cfg.TicketWorkflow = file.TicketWorkflow
	}
	cfg.Features = file.Features
	cfg.Database = expandHome(file.Database)
	cfg.LogUseCases = file.LogUseCases
	return cfg, nil
}

// Settings validates both workflows and returns the lifecycle settings.
func (c Config) Settings() (lifecycle.Settings, error) {
	task := c.TaskWorkflow.toConfig()
	if err := task.Validate(); err != nil {
		return lifecycle.Settings{}, fmt.Errorf("task_workflow: %w", err)
	}
	ticket := c.TicketWorkflow.toConfig()
	if err := ticket.Validate(); err != nil {
		return lifecycle.Settings{}, fmt.Errorf("ticket_workflow: %w", err)
	}
	return lifecycle.Settings{
		TaskWorkflow:   task,
		TicketWorkflow: ticket,
		Features: lifecycle.Features{
			ClientTicketingEnabled: c.Features.ClientTicketingEnabled,
		},
	}, nil
}

// YAML renders the effective configuration in the file format.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
