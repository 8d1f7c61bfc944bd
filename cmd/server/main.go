package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"github.com/tmsousa/invoicebridge/internal/auth"
	"github.com/tmsousa/invoicebridge/internal/config"
	httpadapter "github.com/tmsousa/invoicebridge/internal/interfaces/http"
	"github.com/tmsousa/invoicebridge/internal/invoicing"
	"github.com/tmsousa/invoicebridge/internal/orders"
	"github.com/tmsousa/invoicebridge/pkg/database"
	"github.com/tmsousa/invoicebridge/pkg/logging"
)

func main() {
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice bridge",
		zap.String("document_type", cfg.Invoicing.DocumentType),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orderRepo := orders.NewRepository(db.DB, logger)

	client := accounting.NewClient(accounting.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)

	sessions := auth.NewSessionManager(db.DB, client, cfg.API.Username, cfg.API.Password, logger)
	if err := sessions.EnsureSession(ctx); err != nil {
		logger.Fatal("Failed to establish accounting API session", zap.Error(err))
	}

	settings := invoicing.Settings{
		DocumentType:    cfg.Invoicing.DocumentType,
		DocumentSetID:   cfg.Invoicing.DocumentSetID,
		CloseDocument:   cfg.Invoicing.CloseDocument,
		SendEmail:       cfg.Invoicing.SendEmail,
		ShippingInfo:    cfg.Invoicing.ShippingInfo,
		ExemptionReason: cfg.Invoicing.ExemptionReason,
		CompanySlug:     cfg.Invoicing.CompanySlug,
		EditorBaseURL:   cfg.Invoicing.EditorBaseURL,
	}

	taxResolver := invoicing.NewTaxResolver(client, logger)
	productResolver := invoicing.NewRemoteProductResolver(client, logger)
	customerResolver := invoicing.NewRemoteCustomerResolver(client, logger)
	lineBuilder := invoicing.NewLineItemBuilder(taxResolver, productResolver, settings, logger)
	assembler := invoicing.NewDocumentAssembler(client, customerResolver, lineBuilder, orderRepo, settings, logger)
	finalizer := invoicing.NewFinalizationWorkflow(client, settings, logger)
	service := invoicing.NewService(orderRepo, assembler, finalizer, settings, logger)
	gateway := invoicing.NewDocumentRetrievalGateway(client, settings, logger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, service, gateway, orderRepo, logging.NewKV(logger))

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
