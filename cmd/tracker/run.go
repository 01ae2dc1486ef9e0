package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Track every monitored target once and exit",
	Long: `Runs one synchronous pass: loads each partition, scrapes its targets, reconciles
and writes the inventory and statistics back. With --url only that page is tracked.`,
	RunE: runOnce,
}

var (
	runURL       string
	runPartition string
)

func init() {
	runCommand.Flags().StringVar(&runURL, "url", "", "Track a single ad library page instead of the configured targets")
	runCommand.Flags().StringVar(&runPartition, "partition", "", "Partition tab for --url (defaults to DEFAULT_PARTITION)")

	rootCmd.AddCommand(runCommand)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if runURL != "" {
		partition := runPartition
		if partition == "" {
			partition = cfg.Sheets.DefaultPartition
		}

		stats, err := a.tracker.Track(ctx, domain.Target{URL: runURL, Partition: partition})
		if err != nil {
			return err
		}

		printStatistics(cmd.OutOrStdout(), stats)
		return nil
	}

	summary, err := a.tracker.TrackAll(ctx)
	if summary != nil {
		for _, result := range summary.Results {
			if result.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "FAILED\t%s\t%v\n", result.Target.URL, result.Err)
				continue
			}
			printStatistics(cmd.OutOrStdout(), result.Statistics)
		}

		log.L.WithFields(log.Fields{
			"run_id":  summary.RunID,
			"targets": len(summary.Results),
			"failed":  summary.Failed(),
		}).Info("Run finished")

		if failed := summary.Failed(); failed > 0 && err == nil {
			return fmt.Errorf("%d of %d targets failed", failed, len(summary.Results))
		}
	}

	return err
}

func printStatistics(w io.Writer, s domain.Statistics) {
	fmt.Fprintf(w, "%s\t%s\tactive=%d new=%d multi=%d disappeared=%d reappeared=%d\n",
		s.Timestamp, s.Brand, s.TotalActive, s.NewAds, s.MultiVersion, s.Disappeared, s.Reappeared)
}
