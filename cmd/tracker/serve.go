package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vfg2006/adlibrary-tracker/internal/api"
	"github.com/vfg2006/adlibrary-tracker/internal/api/handler"
	"github.com/vfg2006/adlibrary-tracker/internal/scheduler"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
	"github.com/vfg2006/adlibrary-tracker/pkg/utils"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync scheduler and the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	syncService := scheduler.NewAdLibrarySyncService(a.tracker, cfg, utils.LoadLocation(cfg.App.Timezone))
	if err := syncService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Error starting the ad library sync scheduler")
	} else {
		log.L.Info("Ad library sync scheduler started")
	}

	// A nil interface keeps the statistics route answering 503.
	var statistics handler.StatisticsLister
	if a.statistics != nil {
		statistics = a.statistics
	}

	server, err := api.New(cfg, syncService, statistics)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
