package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/flowsearch/internal/client"
	"github.com/telhawk-systems/flowsearch/internal/config"
	"github.com/telhawk-systems/flowsearch/internal/logging"
	"github.com/telhawk-systems/flowsearch/internal/metrics"
	"github.com/telhawk-systems/flowsearch/internal/session"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     *logging.Logger
	appMetrics *metrics.Metrics

	// fs is where upload and generate read and write files.
	fs afero.Fs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "flowsearch",
	Short: "Upload and search network flow logs",
	Long: `flowsearch uploads VPC flow-log files to a flow-log backend and searches
the ingested events by time window and network attributes.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || cfg.Metrics.File == "" || appMetrics == nil {
			return nil
		}
		if err := appMetrics.WriteTextfile(cfg.Metrics.File); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		return nil
	},
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.flowsearch/config.yaml)")
	flags.String("url", config.DefaultBackendURL, "backend API base URL")
	flags.Duration("timeout", config.DefaultTimeout, "per-request timeout")
	flags.StringP("output", "o", config.DefaultOutput, "output format: table, json, yaml")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.String("log-format", config.DefaultLogFormat, "log format: text, json")
	flags.String("metrics-file", "", "write Prometheus metrics to this file on exit")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile, rootCmd.PersistentFlags())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}

	logger = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)
	appMetrics = metrics.New()
}

func newClient() *client.Client {
	return client.New(cfg.Backend.URL,
		client.WithTimeout(cfg.Backend.Timeout),
		client.WithLogger(logger),
		client.WithMetrics(appMetrics),
	)
}

func newSession() *session.Session {
	return session.New(newClient(), logger, appMetrics)
}

