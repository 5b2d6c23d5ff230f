package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/jpleph/ephem"
	"github.com/echoflaresat/jpleph/vectors"
)

const maxTableRows = 1_000_000

type tableRow struct {
	jd  float64
	pos vectors.Vec3
}

// tableDates lists from, from+step, ... up to and including to.
func tableDates(from, to, step float64) ([]float64, error) {
	if !(step > 0) {
		return nil, errors.New("--step must be positive")
	}
	if !(to >= from) {
		return nil, fmt.Errorf("--to %v is before --from %v", to, from)
	}
	span := (to - from) / step
	if span >= maxTableRows {
		return nil, fmt.Errorf("table would have more than %d rows", maxTableRows)
	}
	n := int(math.Floor(span+1e-9)) + 1
	dates := make([]float64, n)
	for i := range dates {
		dates[i] = min(from+float64(i)*step, to)
	}
	return dates, nil
}

func newTableCmd(a *app) *cobra.Command {
	var (
		from, to, step float64
		workers        int
		opts           locateOptions
	)

	cmd := &cobra.Command{
		Use:   "table <body>",
		Short: "Print a body's positions over a date range as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := ephem.ParseBody(args[0])
			if err != nil {
				return err
			}
			if workers < 1 {
				return errors.New("--workers must be at least 1")
			}
			dates, err := tableDates(from, to, step)
			if err != nil {
				return err
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}

			rows := make([]tableRow, len(dates))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(workers)
			for i, jd := range dates {
				if ctx.Err() != nil {
					break
				}
				i, jd := i, jd
				g.Go(func() error {
					p, err := opts.locate(cat, body, jd)
					if err != nil {
						return err
					}
					rows[i] = tableRow{jd: jd, pos: p}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			a.logger.Debug("computed table", "body", body, "rows", len(rows), "workers", workers)

			w := csv.NewWriter(cmd.OutOrStdout())
			unit := opts.unit()
			_ = w.Write([]string{"jd", "x_" + unit, "y_" + unit, "z_" + unit})
			for _, r := range rows {
				_ = w.Write([]string{
					strconv.FormatFloat(r.jd, 'f', 6, 64),
					strconv.FormatFloat(r.pos.X, 'f', 9, 64),
					strconv.FormatFloat(r.pos.Y, 'f', 9, 64),
					strconv.FormatFloat(r.pos.Z, 'f', 9, 64),
				})
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "first Julian date (TDB)")
	cmd.Flags().Float64Var(&to, "to", 0, "last Julian date (TDB)")
	cmd.Flags().Float64Var(&step, "step", 1, "days between rows")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "positions evaluated concurrently")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
