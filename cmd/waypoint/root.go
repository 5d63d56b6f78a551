package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/waypoint"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	// FormatText is human-readable text output
	FormatText OutputFormat = "text"
	// FormatJSON is structured JSON output
	FormatJSON OutputFormat = "json"
)

// app holds state shared by all commands.
type app struct {
	configFile string
	logLevel   string
	output     string

	cfg    *Config
	logger *waypoint.Logger
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "waypoint",
		Short: "Time-sliced A* path search on grid maps",
		Long: `waypoint runs path searches on grid maps given as ASCII files or as
snapshots in a blob store (local directory, S3 or MinIO).

Search options, grid options, the blob store and resource limits are read
from a YAML config file; flags override it.`,
		PersistentPreRunE: a.load,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", string(FormatText), "Output format (text|json)")

	cmd.AddCommand(
		newSearchCmd(a),
		newBenchCmd(a),
		newConvertCmd(a),
	)
	return cmd
}

// load reads the config file and sets up logging.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if a.output != string(FormatText) && a.output != string(FormatJSON) {
		return fmt.Errorf("invalid output format %q", a.output)
	}

	cfg, err := loadConfig(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	a.logger = waypoint.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) format() OutputFormat {
	return OutputFormat(a.output)
}
