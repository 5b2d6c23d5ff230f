package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/echoflaresat/jpleph/ephem"
)

type layoutJSON struct {
	Slot         string `json:"slot"`
	Offset       int    `json:"offset"`
	Coefficients int    `json:"coefficients"`
	Granules     int    `json:"granules"`
}

type infoJSON struct {
	Path               string       `json:"path"`
	DENumber           int          `json:"de_number"`
	Labels             []string     `json:"labels"`
	StartDate          float64      `json:"start_jd"`
	EndDate            float64      `json:"end_jd"`
	DaysPerInterval    float64      `json:"days_per_interval"`
	Records            int          `json:"records"`
	RecordWords        int          `json:"record_words"`
	ByteOrder          string       `json:"byte_order"`
	AU                 float64      `json:"au_km"`
	EarthMoonMassRatio float64      `json:"emrat"`
	Constants          int          `json:"constants"`
	Layouts            []layoutJSON `json:"layouts"`
}

func describe(path string, h ephem.Header) infoJSON {
	out := infoJSON{
		Path:               path,
		DENumber:           h.DENumber,
		StartDate:          h.StartDate,
		EndDate:            h.EndDate,
		DaysPerInterval:    h.DaysPerInterval,
		Records:            h.IntervalCount(),
		RecordWords:        h.RecordWordCount,
		ByteOrder:          h.ByteOrder.String(),
		AU:                 h.AU,
		EarthMoonMassRatio: h.EarthMoonMassRatio,
		Constants:          len(h.Constants),
	}
	for _, label := range h.Labels {
		if label != "" {
			out.Labels = append(out.Labels, label)
		}
	}
	for s := ephem.Slot(0); int(s) < ephem.NumSlots; s++ {
		if l, ok := h.Layout(s); ok {
			out.Layouts = append(out.Layouts, layoutJSON{
				Slot:         s.String(),
				Offset:       l.Offset,
				Coefficients: l.CoefficientCount,
				Granules:     l.GranuleCount,
			})
		}
	}
	return out
}

func writeInfo(w io.Writer, info infoJSON) error {
	fmt.Fprintf(w, "file:         %s\n", info.Path)
	fmt.Fprintf(w, "DE number:    %d\n", info.DENumber)
	for _, label := range info.Labels {
		fmt.Fprintf(w, "label:        %s\n", label)
	}
	fmt.Fprintf(w, "start:        JD %.2f (%s)\n", info.StartDate, calendar(info.StartDate))
	fmt.Fprintf(w, "end:          JD %.2f (%s)\n", info.EndDate, calendar(info.EndDate))
	fmt.Fprintf(w, "interval:     %g days, %d records\n", info.DaysPerInterval, info.Records)
	fmt.Fprintf(w, "record words: %d\n", info.RecordWords)
	fmt.Fprintf(w, "byte order:   %s\n", info.ByteOrder)
	fmt.Fprintf(w, "AU:           %.3f km\n", info.AU)
	fmt.Fprintf(w, "EMRAT:        %g\n", info.EarthMoonMassRatio)
	fmt.Fprintf(w, "constants:    %d\n", info.Constants)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "slot\toffset\tcoefficients\tgranules")
	for _, l := range info.Layouts {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", l.Slot, l.Offset, l.Coefficients, l.Granules)
	}
	return tw.Flush()
}

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [file...]",
		Short: "Describe ephemeris files",
		Long:  "Describe the named ephemeris files, or the configured ones if none are named. Only headers are read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = a.ephemerisPaths()
			}
			if len(paths) == 0 {
				return errNoEphemeris
			}

			infos := make([]infoJSON, 0, len(paths))
			for _, path := range paths {
				h, err := ephem.ReadHeaderFile(path)
				if err != nil {
					return err
				}
				infos = append(infos, describe(path, h))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			for i, info := range infos {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := writeInfo(cmd.OutOrStdout(), info); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
