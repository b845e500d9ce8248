package service

import (
	"context"
	"strconv"

	"expense-report-service/internal/application/port"
	"expense-report-service/internal/domain/entity"
	"expense-report-service/internal/infrastructure/transport/sftp"
)

// maskedValue replaces secret setting values in admin listings.
const maskedValue = "********"

// SettingsService exposes the database-persisted configuration override
// surface and resolves the effective dispatch transport settings.
type SettingsService interface {
	// List returns all settings with secret values masked.
	List(ctx context.Context) ([]*entity.AppSetting, error)

	// Set stores or replaces one override.
	Set(ctx context.Context, key, value string, isSecret bool) error

	// DispatchSettings returns the SFTP endpoint settings: file-config
	// defaults overridden by any matching app_settings rows.
	DispatchSettings(ctx context.Context) (sftp.Settings, error)
}

type settingsServiceImpl struct {
	settingRepo port.SettingRepository
	defaults    sftp.Settings
	logger      Logger
}

// NewSettingsService creates a new SettingsService. defaults carries the
// transport settings from the config file.
func NewSettingsService(settingRepo port.SettingRepository, defaults sftp.Settings, logger Logger) SettingsService {
	return &settingsServiceImpl{
		settingRepo: settingRepo,
		defaults:    defaults,
		logger:      logger,
	}
}

func (s *settingsServiceImpl) List(ctx context.Context) ([]*entity.AppSetting, error) {
	settings, err := s.settingRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list settings", "error", err)
		return nil, err
	}
	for _, setting := range settings {
		if setting.IsSecret && setting.Value != "" {
			setting.Value = maskedValue
		}
	}
	return settings, nil
}

func (s *settingsServiceImpl) Set(ctx context.Context, key, value string, isSecret bool) error {
	if err := s.settingRepo.Set(ctx, key, value, isSecret); err != nil {
		s.logger.Error("Failed to store setting", "error", err, "key", key)
		return err
	}
	s.logger.Info("Setting updated", "key", key, "secret", isSecret)
	return nil
}

// DispatchSettings resolves the effective transport configuration at
// call time, so an operator override takes effect on the next dispatch
// without a restart.
func (s *settingsServiceImpl) DispatchSettings(ctx context.Context) (sftp.Settings, error) {
	resolved := s.defaults

	if v, ok, err := s.settingRepo.Get(ctx, entity.SettingSFTPHost); err != nil {
		return sftp.Settings{}, err
	} else if ok {
		resolved.Host = v
	}
	if v, ok, err := s.settingRepo.Get(ctx, entity.SettingSFTPUsername); err != nil {
		return sftp.Settings{}, err
	} else if ok {
		resolved.Username = v
	}
	if v, ok, err := s.settingRepo.Get(ctx, entity.SettingSFTPPassword); err != nil {
		return sftp.Settings{}, err
	} else if ok {
		resolved.Password = v
	}
	if v, ok, err := s.settingRepo.Get(ctx, entity.SettingSFTPDirectory); err != nil {
		return sftp.Settings{}, err
	} else if ok {
		resolved.RemoteDir = v
	}
	if v, ok, err := s.settingRepo.Get(ctx, entity.SettingSFTPPort); err != nil {
		return sftp.Settings{}, err
	} else if ok {
		if port, convErr := strconv.Atoi(v); convErr == nil && port > 0 {
			resolved.Port = port
		}
	}

	return resolved, nil
}
