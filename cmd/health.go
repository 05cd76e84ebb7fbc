package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/flowsearch/internal/liveness"
	"github.com/telhawk-systems/flowsearch/pkg/output"
)

const defaultWatchInterval = 30 * time.Second

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Example: `  flowsearch health
  flowsearch health --watch --interval 10s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		monitor := liveness.NewMonitor(newClient(), logger)

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			interval, _ := cmd.Flags().GetDuration("interval")
			err := monitor.Watch(cmd.Context(), interval, printReport)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		monitor.Check(cmd.Context())
		r := monitor.Report()
		if handled, err := output.Structured(cfg.Output, r); handled {
			if err != nil {
				return err
			}
		} else {
			printReport(r)
		}

		if r.Status != liveness.StatusHealthy {
			return fmt.Errorf("backend at %s is not available", cfg.Backend.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().BoolP("watch", "w", false, "keep probing until interrupted")
	healthCmd.Flags().Duration("interval", defaultWatchInterval, "probe interval with --watch")
}

func printReport(r liveness.Report) {
	switch r.Status {
	case liveness.StatusHealthy:
		output.Success("Backend healthy (%s)", time.Duration(r.LatencyMS)*time.Millisecond)
	case liveness.StatusError:
		output.Error("Backend error: %s", r.Error)
	default:
		output.Info("Checking backend...")
	}
}
