// ABOUTME: Cobra root command: flags, config loading and the raw-mode session around the app
// ABOUTME: Flags override config values and are reapplied on every config reload

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Arnesfield/ternimal/internal/config"
	"github.com/Arnesfield/ternimal/internal/log"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

type rootFlags struct {
	config      string
	logLevel    string
	metricsAddr string
	pingCount   int
	noHistory   bool
}

func newRootCmd(code *int) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "ternimal-demo",
		Short:         "Interactive prompt that keeps working while logs are printed",
		Long:          "ternimal-demo shows a prompt line that stays below asynchronous log output.\nEnter help at the prompt for a list of commands.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override := f.override(cmd)
			c, err := run(cmd.Context(), f.config, override)
			*code = c
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "path to a YAML config file")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fl.IntVar(&f.pingCount, "ping-count", 0, "default number of ping replies")
	fl.BoolVar(&f.noHistory, "no-history", false, "do not load or save the history file")
	return cmd
}

// override returns a function applying the flags that were set.
func (f *rootFlags) override(cmd *cobra.Command) func(*config.Settings) {
	changed := cmd.Flags().Changed
	return func(s *config.Settings) {
		if changed("log-level") {
			s.LogLevel = f.logLevel
		}
		if changed("metrics-addr") {
			s.MetricsAddr = f.metricsAddr
		}
		if changed("ping-count") {
			s.Ping.Count = f.pingCount
		}
		if f.noHistory {
			s.HistoryFile = ""
		}
	}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	code := 0
	if err := newRootCmd(&code).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

func run(ctx context.Context, configPath string, override func(*config.Settings)) (int, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return 1, err
	}
	override(settings)
	lvl, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return 1, err
	}
	log.SetLevel(lvl)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	stdin := tty.NewStdin(os.Stdin)
	if err := stdin.EnterRawMode(); err != nil {
		return 1, err
	}
	defer tty.RestoreOnPanic(stdin)

	stdout, stderr := tty.NewOutput(os.Stdout), tty.NewOutput(os.Stderr)
	stdout.SetCRLF(stdin.IsTerminal())
	stderr.SetCRLF(stdin.IsTerminal())

	a, err := newApp(appDeps{
		settings:   settings,
		configPath: configPath,
		override:   override,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		teaOut:     os.Stdout,
		registry:   reg,
		promptTick: time.Second,
	})
	if err != nil {
		_ = stdin.ExitRawMode()
		return 1, err
	}
	if err := a.start(ctx); err != nil {
		a.exit(1)
		_ = stdin.ExitRawMode()
		return 1, err
	}
	code, err := a.wait()

	if rerr := stdin.ExitRawMode(); rerr != nil && err == nil {
		err = rerr
	}
	fmt.Fprintln(os.Stdout, "Goodbye!")
	return code, err
}
