package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echoflaresat/jpleph/catalog"
	"github.com/echoflaresat/jpleph/earth"
	"github.com/echoflaresat/jpleph/ephem"
	"github.com/echoflaresat/jpleph/vectors"
)

// locateOptions are shared by position and table.
type locateOptions struct {
	au         bool
	geocentric bool
}

func (o *locateOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.au, "au", false, "report coordinates in astronomical units instead of km")
	cmd.Flags().BoolVar(&o.geocentric, "geocentric", false, "report positions relative to Earth's center")
}

func (o *locateOptions) center() string {
	if o.geocentric {
		return "earth"
	}
	return "ssb"
}

func (o *locateOptions) unit() string {
	if o.au {
		return "au"
	}
	return "km"
}

// locate evaluates body at jd and converts it to the requested center and
// unit.
func (o *locateOptions) locate(cat *catalog.Catalog, body ephem.Body, jd float64) (vectors.Vec3, error) {
	var (
		p   vectors.Vec3
		err error
	)
	switch {
	case o.geocentric:
		p, err = earth.GeocentricPosition(cat, body, jd)
	case body == ephem.Moon:
		// Stored geocentric; shift to the barycenter like every other body.
		p, err = barycentricMoon(cat, jd)
	default:
		p, err = cat.Position(body, jd)
	}
	if err != nil {
		return vectors.Vec3{}, err
	}
	if !o.au {
		return p, nil
	}

	// The unit comes from the file that served body.
	path, err := cat.Resolve(body, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	h, _ := cat.Header(path)
	if !(h.AU > 0) {
		return vectors.Vec3{}, fmt.Errorf("%s does not define the astronomical unit", path)
	}
	return p.Scale(1 / h.AU), nil
}

func barycentricMoon(cat *catalog.Catalog, jd float64) (vectors.Vec3, error) {
	moon, err := cat.Position(ephem.Moon, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	e, err := cat.Position(ephem.Earth, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	return e.Add(moon), nil
}

type positionJSON struct {
	Body     string  `json:"body"`
	JD       float64 `json:"jd"`
	Time     string  `json:"time"`
	Center   string  `json:"center"`
	Unit     string  `json:"unit"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Distance float64 `json:"distance"`
}

func newPositionCmd(a *app) *cobra.Command {
	var (
		epoch  epochFlags
		opts   locateOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "position <body>",
		Short: "Print a body's position at one instant",
		Long:  "Print a body's position at one instant. Bodies: mercury, venus, emb, mars, jupiter, saturn, uranus, neptune, pluto, moon, sun, earth, ssb.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := ephem.ParseBody(args[0])
			if err != nil {
				return err
			}
			jd, err := epoch.resolve(cmd)
			if err != nil {
				return err
			}
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			p, err := opts.locate(cat, body, jd)
			if err != nil {
				return err
			}

			out := positionJSON{
				Body:     body.String(),
				JD:       jd,
				Time:     calendar(jd),
				Center:   opts.center(),
				Unit:     opts.unit(),
				X:        p.X,
				Y:        p.Y,
				Z:        p.Z,
				Distance: p.Norm(),
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "body:     %s\n", out.Body)
			fmt.Fprintf(w, "jd:       %.6f (%s)\n", out.JD, out.Time)
			fmt.Fprintf(w, "center:   %s\n", out.Center)
			fmt.Fprintf(w, "x:        %.9f %s\n", out.X, out.Unit)
			fmt.Fprintf(w, "y:        %.9f %s\n", out.Y, out.Unit)
			fmt.Fprintf(w, "z:        %.9f %s\n", out.Z, out.Unit)
			_, err = fmt.Fprintf(w, "distance: %.9f %s\n", out.Distance, out.Unit)
			return err
		},
	}
	epoch.register(cmd)
	opts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
