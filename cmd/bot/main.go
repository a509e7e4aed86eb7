package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/shelf-planogram/config"
	"github.com/yourusername/shelf-planogram/internal/delivery/telegram"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/parser"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/shopapi"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/storage"
	"github.com/yourusername/shelf-planogram/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireBot(); err != nil {
		return err
	}

	zcfg := zap.NewProductionConfig()
	if cfg.LogLevel == "debug" {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	catalogRepo, err := storage.NewSQLiteSkuCatalogRepository(cfg.CatalogDBPath)
	if err != nil {
		return err
	}
	defer catalogRepo.Close()

	planogramParser := parser.NewPlanogramParser(parser.NewTabularDecoder(cfg.CSVDelimiter, logger), logger)
	gateway := shopapi.NewClient(cfg.ShopAPIBaseURL, cfg.ShopAPIToken, cfg.ShopAPITimeout, logger)

	draftUseCase := usecase.NewDraftUseCase(
		storage.NewMemoryDraftRepository(),
		catalogRepo,
		planogramParser,
		gateway,
		cfg.MaxUploadBytes,
		logger,
	)
	catalogUseCase := usecase.NewCatalogUseCase(catalogRepo, logger)

	handler, err := telegram.NewBotHandler(cfg.TelegramToken, cfg.DefaultOrgID, cfg.MaxUploadBytes, draftUseCase, catalogUseCase, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting bot",
		zap.String("username", handler.GetBotUsername()),
		zap.String("shop_api", cfg.ShopAPIBaseURL),
		zap.String("catalog_db", cfg.CatalogDBPath))

	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
