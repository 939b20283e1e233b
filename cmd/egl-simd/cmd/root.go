// Package cmd holds the commands of egl-simd, a simulator that replays
// governance scenarios against the egl module on an in-memory store.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eglgov/egl-app/internal/maps"
	"github.com/eglgov/egl-app/pkg/scenario"
	"github.com/eglgov/egl-app/x/egl/types"
)

// EnvPrefix is the prefix of environment variables that can be used
// instead of flags, for example EGL_SIM_LOG_LEVEL.
const EnvPrefix = "EGL_SIM"

const (
	FlagScenario    = "scenario"
	FlagOutput      = "output"
	FlagLogLevel    = "log-level"
	FlagSet         = "set"
	FlagUnset       = "unset"
	FlagMetricsAddr = "metrics-addr"
	FlagLinger      = "linger"
)

// NewRootCmd creates the egl-simd root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "egl-simd",
		Short: "EGL governance simulator",
		Long: `
egl-simd replays YAML scenarios against the egl gas limit governance module.
Every scenario starts from a fresh in-memory store. Flags can also be set
through environment variables prefixed with EGL_SIM_, for example
EGL_SIM_LOG_LEVEL=debug.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(v, cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String(FlagLogLevel, zerolog.InfoLevel.String(), "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice(FlagSet, nil, "genesis override as path=value, may be repeated (e.g. params.max_lockup=4)")
	rootCmd.PersistentFlags().StringSlice(FlagUnset, nil, "genesis field to remove, may be repeated (e.g. params.creator_address)")

	rootCmd.AddCommand(
		runCmd(v),
		genesisCmd(v),
	)
	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(flags)
}

func newLogger(v *viper.Viper, w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(FlagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return log.NewLogger(w, log.LevelOption(level), log.ColorOption(false)), nil
}

// buildGenesis returns the scenario genesis with the --unset and --set
// overrides applied.
func buildGenesis(v *viper.Viper, sc scenario.Scenario) (*types.GenesisState, error) {
	gs, err := sc.Genesis()
	if err != nil {
		return nil, err
	}

	overrides, removals := v.GetStringSlice(FlagSet), v.GetStringSlice(FlagUnset)
	if len(overrides) == 0 && len(removals) == 0 {
		return gs, gs.Validate()
	}

	bz, err := json.Marshal(gs)
	if err != nil {
		return nil, err
	}
	for _, path := range removals {
		if bz, err = maps.RemoveField(bz, path); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	bz, err = maps.ApplyOverrides(bz, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	var out types.GenesisState
	if err := json.Unmarshal(bz, &out); err != nil {
		return nil, fmt.Errorf("failed to decode genesis after overrides: %w", err)
	}
	return &out, out.Validate()
}

func loadScenario(v *viper.Viper) (scenario.Scenario, error) {
	path := v.GetString(FlagScenario)
	if path == "" {
		return scenario.Scenario{}, nil
	}
	return scenario.Load(path)
}
