package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/infrastructure/persistence/sqlite"
)

// SettingRepository implements port.SettingRepository
type SettingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sql.DB, logger *zap.Logger) port.SettingRepository {
	return &SettingRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the value for key; found is false when the key has no row
func (r *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM app_settings WHERE key = ?`

	var value string
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get setting", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to get setting: %w", err)
	}
	return value, true, nil
}

// Set upserts the value for key
func (r *SettingRepository) Set(ctx context.Context, key, value string, isSecret bool) error {
	query := `
		INSERT INTO app_settings (key, value, is_secret)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			is_secret = excluded.is_secret,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, key, value, isSecret)
	if err != nil {
		r.logger.Error("Failed to set setting", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// List returns every stored setting ordered by key
func (r *SettingRepository) List(ctx context.Context) ([]*entity.AppSetting, error) {
	query := `
		SELECT id, key, value, is_secret, created_at, updated_at
		FROM app_settings
		ORDER BY key ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list settings", zap.Error(err))
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []*entity.AppSetting
	for rows.Next() {
		var setting entity.AppSetting
		err := rows.Scan(
			&setting.ID,
			&setting.Key,
			&setting.Value,
			&setting.IsSecret,
			&setting.CreatedAt,
			&setting.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, &setting)
	}
	return settings, rows.Err()
}

func (r *SettingRepository) getExecutor(ctx context.Context) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.SettingRepository = (*SettingRepository)(nil)
