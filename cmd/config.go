package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "DEPHEM"
	configName = "dephem"
	configType = "toml"

	keyEphemeris = "ephemeris"
	keyCacheSize = "cache_size"
	keyVerbose   = "verbose"

	defaultCacheSize = 4
)

func (a *app) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	_ = a.v.BindPFlag(keyEphemeris, flags.Lookup("ephemeris"))
	_ = a.v.BindPFlag(keyCacheSize, flags.Lookup("cache-size"))
	_ = a.v.BindPFlag(keyVerbose, flags.Lookup("verbose"))
}

// loadConfig layers flags over DEPHEM_* variables over the config file. A
// missing config file is only an error when it was named explicitly.
func loadConfig(v *viper.Viper, path string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyCacheSize, defaultCacheSize)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", configName))
	}
	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}

// ephemerisPaths returns the configured files in priority order. Entries
// from DEPHEM_EPHEMERIS are separated by whitespace.
func (a *app) ephemerisPaths() []string {
	return a.v.GetStringSlice(keyEphemeris)
}
