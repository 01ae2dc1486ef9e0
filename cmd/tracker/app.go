package main

import (
	"context"
	"fmt"

	"github.com/vfg2006/adlibrary-tracker/infrastructure/database/postgres"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/integrator/adlibrary"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/integrator/gsheets"
	"github.com/vfg2006/adlibrary-tracker/infrastructure/repository"
	"github.com/vfg2006/adlibrary-tracker/internal/codec"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/internal/usecases/tracking"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
	"github.com/vfg2006/adlibrary-tracker/pkg/utils"
)

// app holds the wired collaborators shared by the commands
type app struct {
	cfg        *config.Config
	tracker    *tracking.Service
	statistics repository.StatisticsHistoryRepository
	scraper    *adlibrary.Client
	pgConn     *postgres.Connection
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout, err := codec.ParseLayout(cfg.Sheets.PartitionLayout)
	if err != nil {
		return nil, err
	}

	sheetsClient, err := gsheets.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	inventoryRepo := repository.NewSheetInventoryRepository(
		sheetsClient,
		layout,
		cfg.Sheets.InventoryFirstRow,
		cfg.Sheets.InventoryMaxRow,
	)
	targetRepo := repository.NewSheetTargetRepository(sheetsClient, cfg.Sheets.TargetsRange, cfg.Sheets.DefaultPartition)

	statisticsRepos := []tracking.StatisticsRepository{
		repository.NewSheetStatisticsRepository(sheetsClient, cfg.Sheets.StatisticsRange),
	}

	if cfg.MirrorEnabled() {
		conn, err := pgconn(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.pgConn = conn
		a.statistics = repository.NewStatisticsHistoryRepository(conn)
		statisticsRepos = append(statisticsRepos, a.statistics)
	} else {
		log.L.Info("DATABASE_URL is empty, statistics mirror disabled")
	}

	a.scraper = adlibrary.NewClient(ctx, adlibrary.OptionsFromConfig(cfg.Browser))

	a.tracker = tracking.NewService(
		inventoryRepo,
		targetRepo,
		a.scraper,
		tracking.ServiceConfig{
			MaxConcurrentPartitions: cfg.TrackerSync.MaxConcurrentPartitions,
			TargetDelay:             cfg.TrackerSync.TargetDelay,
			Location:                utils.LoadLocation(cfg.App.Timezone),
		},
		statisticsRepos...,
	)

	log.L.WithFields(log.Fields{
		"spreadsheet_id": cfg.Sheets.SpreadsheetID,
		"layout":         layout.String(),
		"mirror":         cfg.MirrorEnabled(),
	}).Info("Tracker wired")

	return a, nil
}

func (a *app) Close() {
	if a.scraper != nil {
		a.scraper.Close()
	}
	if a.pgConn != nil {
		if err := a.pgConn.Close(); err != nil {
			log.L.WithError(err).Warn("Error closing PostgreSQL connection")
		}
	}
}

func pgconn(ctx context.Context, dbConfig config.Database) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	if err := postgres.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.L.Info("PostgreSQL connection established")
	return conn, nil
}
