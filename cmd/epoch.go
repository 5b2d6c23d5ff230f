package cmd

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cobra"
)

// epochFlags names an instant either as a Julian date or as a calendar time.
// Calendar times are converted without a UTC to TDB correction.
type epochFlags struct {
	jd   float64
	time string
}

func (f *epochFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.jd, "jd", 0, "Julian date (TDB)")
	cmd.Flags().StringVar(&f.time, "time", "", "instant in RFC3339 format, e.g. 2025-08-02T15:04:05Z (default now)")
	cmd.MarkFlagsMutuallyExclusive("jd", "time")
}

func (f *epochFlags) resolve(cmd *cobra.Command) (float64, error) {
	if cmd.Flags().Changed("jd") {
		return f.jd, nil
	}
	if f.time == "" {
		return julian.TimeToJD(time.Now().UTC()), nil
	}
	t, err := time.Parse(time.RFC3339, f.time)
	if err != nil {
		return 0, fmt.Errorf("invalid --time: %w", err)
	}
	return julian.TimeToJD(t.UTC()), nil
}

// calendar renders jd as a UTC timestamp for display.
func calendar(jd float64) string {
	return julian.JDToTime(jd).UTC().Round(time.Second).Format(time.RFC3339)
}
