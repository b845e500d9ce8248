// Command dispatch runs one export dispatch cycle and exits. It shares
// configuration with the server binary so operators can trigger or retry
// a batch outside the cron schedule.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"expense-report-service/internal/application/service"
	"expense-report-service/internal/config"
	"expense-report-service/internal/infrastructure/persistence/repository"
	"expense-report-service/internal/infrastructure/persistence/sqlite"
	"expense-report-service/internal/infrastructure/transport/sftp"
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

	db := sqlite.NewDB(sqlDB, logger)
	kvLogger := utils.NewKVLogger(logger)

	reportRepo := repository.NewReportRepository(sqlDB, logger)
	settingRepo := repository.NewSettingRepository(sqlDB, logger)

	settingsService := service.NewSettingsService(settingRepo, sftp.Settings{
		Host:      cfg.SFTP.Host,
		Port:      cfg.SFTP.Port,
		Username:  cfg.SFTP.Username,
		Password:  cfg.SFTP.Password,
		RemoteDir: cfg.SFTP.RemoteDir,
		Timeout:   cfg.SFTP.Timeout,
	}, kvLogger)

	transport := sftp.NewTransport(settingsService, logger)
	dispatchService := service.NewDispatchService(reportRepo, transport, db, kvLogger)

	result, err := dispatchService.DispatchPending(context.Background())
	if err != nil {
		logger.Fatal("Dispatch failed", zap.Error(err))
	}

	if result.ReportCount == 0 {
		logger.Info("Nothing pending upload; no batch sent")
		return
	}

	logger.Info("Dispatch completed",
		zap.String("batch_id", result.BatchID),
		zap.Int("report_count", result.ReportCount),
		zap.String("filename", result.Filename))
}
