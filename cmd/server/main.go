package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"expense-report-service/internal/application/service"
	"expense-report-service/internal/config"
	"expense-report-service/internal/infrastructure/persistence/repository"
	"expense-report-service/internal/infrastructure/persistence/sqlite"
	"expense-report-service/internal/infrastructure/referencedata"
	"expense-report-service/internal/infrastructure/storage"
	"expense-report-service/internal/infrastructure/transport/sftp"
	httpserver "expense-report-service/internal/interfaces/http"
	"expense-report-service/internal/scheduler"
	"expense-report-service/pkg/database"
	"expense-report-service/pkg/utils"
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

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting expense report service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)
	kvLogger := utils.NewKVLogger(logger)

	// Repositories
	reportRepo := repository.NewReportRepository(sqlDB, logger)
	lineRepo := repository.NewLineRepository(sqlDB, logger)
	userRepo := repository.NewUserRepository(sqlDB, logger)
	settingRepo := repository.NewSettingRepository(sqlDB, logger)

	// Infrastructure collaborators
	refData := referencedata.NewWorkbookProvider(cfg.Reference.WorkbookPath, logger)
	receipts := storage.NewLocalReceiptStorage(cfg.Storage.ReceiptDir, cfg.Storage.BaseURL, logger)

	settingsService := service.NewSettingsService(settingRepo, sftp.Settings{
		Host:      cfg.SFTP.Host,
		Port:      cfg.SFTP.Port,
		Username:  cfg.SFTP.Username,
		Password:  cfg.SFTP.Password,
		RemoteDir: cfg.SFTP.RemoteDir,
		Timeout:   cfg.SFTP.Timeout,
	}, kvLogger)

	transport := sftp.NewTransport(settingsService, logger)

	// Application services
	reportService := service.NewReportService(reportRepo, lineRepo, userRepo, refData, receipts, db, kvLogger)
	reviewService := service.NewReviewService(reportRepo, lineRepo, db, kvLogger)
	dispatchService := service.NewDispatchService(reportRepo, transport, db, kvLogger)

	// Periodic dispatch
	var dispatchScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		dispatchScheduler = scheduler.New(dispatchService, kvLogger)
		if err := dispatchScheduler.Register(cfg.Scheduler.DispatchCron); err != nil {
			logger.Fatal("Failed to register dispatch schedule", zap.Error(err))
		}
		dispatchScheduler.Start()
		defer dispatchScheduler.Stop()
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, reportService, reviewService, dispatchService, settingsService, refData, kvLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
