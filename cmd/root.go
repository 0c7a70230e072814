package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2492dfd/stockLog-final/aggregate"
	"github.com/2492dfd/stockLog-final/analysis"
	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/database"
	"github.com/2492dfd/stockLog-final/i18n"
	"github.com/2492dfd/stockLog-final/ingest"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/pricing"
	"github.com/2492dfd/stockLog-final/trace"
	"github.com/2492dfd/stockLog-final/tradelog"
)

const version = "0.1.0"

var configPath string

var rootCMD = &cobra.Command{
	Use:   "stocklog",
	Short: "Stock trading journal",
	Long: `A trading journal for Korean retail investors. It records buy and sell
executions with their fees and realized profit, imports broker CSV exports and
serves monthly and yearly reports through a REST API.`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCMD.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCMD.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCMD.AddCommand(serverCMD, ingestCMD, summaryCMD, userCMD)
}

// app is everything a command needs once config and database are up.
type app struct {
	cfg        *config.Config
	tradeLogs  *tradelog.Service
	aggregator *aggregate.Aggregator
	analysis   *analysis.Service
	importer   *ingest.Processor
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging)
	if err := trace.Init(cfg.Tracing.Enabled, version); err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	if err := i18n.Init(cfg.Language); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Initializing database...", "type", cfg.Database.Type)
	if err := database.InitDB(ctx, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	prices, err := pricing.New(ctx, cfg.Pricing)
	if err != nil {
		return nil, err
	}

	logs := tradelog.NewService(database.DB, calc.New(), prices)
	return &app{
		cfg:        cfg,
		tradeLogs:  logs,
		aggregator: aggregate.New(database.DB),
		analysis:   analysis.NewService(database.DB, logs, analysis.NewClient(cfg.Analysis)),
		importer:   ingest.NewProcessor(database.DB, cfg.Ingest),
	}, nil
}

func shutdown(ctx context.Context) {
	if err := trace.Shutdown(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Failed to flush traces", err)
	}
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
