package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echoflaresat/jpleph/earth"
)

func newSunCmd(a *app) *cobra.Command {
	var epoch epochFlags

	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Compare the ephemeris Sun direction with the analytic solar theory",
		Long: "Print the geocentric unit vector toward the Sun from the ephemeris and from " +
			"the analytic solar theory, and the angle between them. The ephemeris vector is " +
			"in the file's frame; the analytic one is referred to the equator and equinox of date.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jd, err := epoch.resolve(cmd)
			if err != nil {
				return err
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			fromFile, err := earth.SunDirection(cat, jd)
			if err != nil {
				return err
			}
			analytic := earth.AnalyticSunDirection(jd)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "jd:         %.6f (%s)\n", jd, calendar(jd))
			fmt.Fprintf(w, "ephemeris:  %+.9f %+.9f %+.9f\n", fromFile.X, fromFile.Y, fromFile.Z)
			fmt.Fprintf(w, "analytic:   %+.9f %+.9f %+.9f\n", analytic.X, analytic.Y, analytic.Z)
			_, err = fmt.Fprintf(w, "separation: %.6f deg\n", earth.Separation(fromFile, analytic))
			return err
		},
	}
	epoch.register(cmd)
	return cmd
}
