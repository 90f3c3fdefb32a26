// Command adapterctl builds adapters from seed files, renders them in the
// terminal and checkpoints their state through the configured transport.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"adaptercore/internal/checkpoint"
	"adaptercore/internal/observability"
	"adaptercore/pkg/adapter"
)

var (
	version  = "0.1.0"
	exitFunc = os.Exit
)

// appEnv holds the settings every subcommand shares.
type appEnv struct {
	driver    string
	logLevel  string
	logFormat string
	metrics   bool

	logger   adapter.Logger
	registry *prometheus.Registry
	recorder observability.Recorder
}

func (r *appEnv) setup(cmd *cobra.Command) error {
	log, err := observability.NewLogger(cmd.ErrOrStderr(), r.logFormat, r.logLevel)
	if err != nil {
		return err
	}
	r.logger = log
	if r.metrics {
		r.registry = prometheus.NewRegistry()
		col, err := observability.NewCollector(r.registry)
		if err != nil {
			return err
		}
		r.recorder = col
	}
	return nil
}

func (r *appEnv) transport(ctx context.Context) (checkpoint.Transport, error) {
	if r.driver != "" {
		return checkpoint.OpenDriver(ctx, checkpoint.Driver(r.driver))
	}
	return checkpoint.Open(ctx)
}

// dumpMetrics writes the gathered event counters in the Prometheus text
// exposition format.
func (r *appEnv) dumpMetrics(w io.Writer) error {
	if r.registry == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func newRootCmd() *cobra.Command {
	rt := &appEnv{}
	root := &cobra.Command{
		Use:           "adapterctl",
		Short:         "Build, render and checkpoint stateful collections",
		Long:          "adapterctl builds list and expandable adapters from YAML or TOML seed files, renders them and stores their snapshots through the checkpoint transport selected by ADAPTERCORE_CHECKPOINT_DRIVER.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.dumpMetrics(cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&rt.driver, "driver", "", "checkpoint driver (memory|fs|sqlite|postgres|s3); overrides ADAPTERCORE_CHECKPOINT_DRIVER")
	pf.StringVar(&rt.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	pf.StringVar(&rt.logFormat, "log-format", "text", "log format (text|json)")
	pf.BoolVar(&rt.metrics, "metrics", false, "print event counters to stderr when the command finishes")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Show version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "adapterctl %s\n", version)
			},
		},
		newRenderCmd(rt),
		newSaveCmd(rt),
		newShowCmd(rt),
		newCheckpointsCmd(rt),
		newDeleteCmd(rt),
	)
	return root
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		exitFunc(1)
	}
}
