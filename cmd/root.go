// Package cmd implements the dephem command line.
package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/echoflaresat/jpleph/catalog"
)

var errNoEphemeris = errors.New("no ephemeris file configured; pass --ephemeris or set DEPHEM_EPHEMERIS")

func Execute() error {
	return newRootCmd().Execute()
}

type app struct {
	v      *viper.Viper
	logger *slog.Logger
	cat    *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.Default()}
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "dephem",
		Short:        "Read JPL DE binary ephemerides and compute body positions",
		Long:         "dephem inspects JPL Development Ephemeris (DE) binary files and evaluates barycentric or geocentric positions of the planets, Moon and Sun.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, configPath)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceP("ephemeris", "e", nil, "DE binary file; repeat to add fallbacks, earlier files win")
	flags.StringVar(&configPath, "config", "", "config file (default $HOME/.config/dephem/dephem.toml)")
	flags.BoolP("verbose", "v", false, "log loading and cache activity to stderr")
	flags.Int("cache-size", defaultCacheSize, "number of ephemeris files kept loaded")
	a.bindFlags(rootCmd)

	rootCmd.AddCommand(
		newVersionCmd(),
		newInfoCmd(a),
		newPositionCmd(a),
		newTableCmd(a),
		newSunCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, configPath string) error {
	if err := loadConfig(a.v, configPath); err != nil {
		return err
	}
	level := slog.LevelWarn
	if a.v.GetBool(keyVerbose) {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// catalog registers the configured files on first use.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cat != nil {
		return a.cat, nil
	}
	paths := a.ephemerisPaths()
	if len(paths) == 0 {
		return nil, errNoEphemeris
	}
	c, err := catalog.New(a.v.GetInt(keyCacheSize), catalog.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := c.Add(paths...); err != nil {
		return nil, err
	}
	a.cat = c
	return c, nil
}
