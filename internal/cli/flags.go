package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value holding a calendar date in UTC.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(time.DateOnly)
}

func (d *dateValue) Set(s string) error {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return fmt.Errorf("want YYYY-MM-DD, got %q", s)
	}
	*d.t = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

func dateVar(fs *pflag.FlagSet, p *time.Time, name, usage string) {
	fs.Var(&dateValue{t: p}, name, usage)
}

// changedString returns &v when the flag was given on the command line.
func changedString(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func changedDate(cmd *cobra.Command, name string, v time.Time) *time.Time {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func changedFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
