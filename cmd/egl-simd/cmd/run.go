package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/pkg/metrics"
	"github.com/eglgov/egl-app/pkg/scenario"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func runCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run a scenario and print the report",
		Args:    cobra.NoArgs,
		Example: "egl-simd run --scenario scenario.yaml --output json --set params.grace_period_epochs=2",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if v.GetString(FlagScenario) == "" {
				return fmt.Errorf("no scenario specified. Use --%s or %s_SCENARIO", FlagScenario, EnvPrefix)
			}
			sc, err := loadScenario(v)
			if err != nil {
				return err
			}
			gs, err := buildGenesis(v, sc)
			if err != nil {
				return err
			}

			opts := []scenario.Option{scenario.WithLogger(logger)}
			addr := v.GetString(FlagMetricsAddr)
			reg := prometheus.NewRegistry()
			if addr != "" {
				m, err := metrics.NewGovernanceMetrics(reg)
				if err != nil {
					return err
				}
				opts = append(opts, scenario.WithMetrics(m))
			}
			runner, err := scenario.NewRunner(sc, gs, opts...)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)
			if addr != "" {
				g.Go(func() error { return metrics.Serve(ctx, addr, reg, logger) })
			}

			g.Go(func() error {
				defer cancel()
				report, runErr := runner.Run(ctx)
				if err := writeReport(cmd.OutOrStdout(), v.GetString(FlagOutput), report); err != nil {
					return err
				}
				if runErr != nil || addr == "" {
					return runErr
				}
				select {
				case <-time.After(v.GetDuration(FlagLinger)):
				case <-ctx.Done():
				}
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().String(FlagScenario, "", "path to a YAML scenario")
	cmd.Flags().String(FlagOutput, outputText, "report format (text, json, yaml)")
	cmd.Flags().String(FlagMetricsAddr, "", "serve prometheus metrics on this address while running")
	cmd.Flags().Duration(FlagLinger, 0, "keep serving metrics for this long after the run")
	return cmd
}

func writeReport(w io.Writer, format string, report *scenario.Report) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case outputYAML:
		bz, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = w.Write(bz)
		return err
	case outputText:
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, report *scenario.Report) error {
	if report.Name != "" {
		fmt.Fprintf(w, "scenario %s\n", report.Name)
	}
	for _, step := range report.Steps {
		fmt.Fprintf(w, "%3d %-22s epoch=%d", step.Index, step.Action, step.Epoch)
		for _, key := range scenario.SortedKeys(step.Detail) {
			fmt.Fprintf(w, " %s=%s", key, step.Detail[key])
		}
		if step.Error != "" {
			fmt.Fprintf(w, " error=%q", step.Error)
		}
		fmt.Fprintln(w)
	}
	if report.Balances == nil {
		return nil
	}
	fmt.Fprintf(w, "desired_egl=%d baseline_egl=%d epoch=%d\n", report.State.DesiredEgl, report.State.BaselineEgl, report.State.CurrentEpoch)
	for _, name := range scenario.SortedKeys(report.Balances) {
		fmt.Fprintf(w, "balance %s=%s%s\n", name, report.Balances[name], appconsts.BondDenom)
	}
	return nil
}
