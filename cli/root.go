// ABOUTME: Cobra root command and shared wiring for every subcommand
// ABOUTME: Loads config, initializes logging and builds the CRM client and tool registry
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/harperreed/civibridge/civicrm"
	"github.com/harperreed/civibridge/config"
	"github.com/harperreed/civibridge/handlers"
	"github.com/harperreed/civibridge/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

// newRunner is swapped in tests to avoid spawning cv.
var newRunner = func(timeout time.Duration, log *slog.Logger) civicrm.Runner {
	return civicrm.NewExecRunner(timeout, log)
}

type app struct {
	cfg config.Config
	log *slog.Logger
	reg *handlers.Registry
}

// loadApp wires config, logging, the CRM client and the registry. Logs go
// to stderr so stdout stays free for MCP and command output.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L

	timeout, err := cfg.CRM.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("failed to parse crm timeout: %w", err)
	}
	client := civicrm.New(cfg.ClientConfig(), newRunner(timeout, log), civicrm.WithLogger(log))

	return &app{
		cfg: cfg,
		log: log,
		reg: handlers.NewRegistry(client, log),
	}, nil
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "CiviCRM tools for AI assistants over MCP, HTTP and the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/civibridge/config.toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newMCPCommand(version),
		newServeCommand(),
		newToolsCommand(),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	return run(NewRootCommand(version), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
