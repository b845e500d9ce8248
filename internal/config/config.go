package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SFTP      SFTPConfig      `mapstructure:"sftp"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// SFTPConfig holds the baseline NetSuite SFTP connection settings.
// Database-stored settings override these at dispatch time, so none of
// them are required at startup.
type SFTPConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	RemoteDir string        `mapstructure:"remote_dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ReferenceConfig holds reference data configuration
type ReferenceConfig struct {
	WorkbookPath string `mapstructure:"workbook_path"`
}

// StorageConfig holds receipt storage configuration
type StorageConfig struct {
	ReceiptDir string `mapstructure:"receipt_dir"`
	BaseURL    string `mapstructure:"base_url"`
}

// SchedulerConfig holds dispatch scheduler configuration
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DispatchCron string `mapstructure:"dispatch_cron"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/expense_reports.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// SFTP defaults
	viper.SetDefault("sftp.port", 22)
	viper.SetDefault("sftp.remote_dir", "/netsuite/inbound")
	viper.SetDefault("sftp.timeout", 30*time.Second)

	// Reference data defaults
	viper.SetDefault("reference.workbook_path", "reference/netsuite_reference.xlsx")

	// Storage defaults
	viper.SetDefault("storage.receipt_dir", "data/expense-receipts")
	viper.SetDefault("storage.base_url", "/receipts")

	// Scheduler defaults: first day of the month at 06:00
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.dispatch_cron", "0 6 1 * *")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("sftp.host", "NETSUITE_SFTP_HOST")
	viper.BindEnv("sftp.port", "NETSUITE_SFTP_PORT")
	viper.BindEnv("sftp.username", "NETSUITE_SFTP_USERNAME")
	viper.BindEnv("sftp.password", "NETSUITE_SFTP_PASSWORD")
	viper.BindEnv("sftp.remote_dir", "NETSUITE_SFTP_DIRECTORY")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("reference.workbook_path", "REFERENCE_WORKBOOK_PATH")
}

// Validate validates the configuration. SFTP credentials are checked at
// dispatch time, not here, since database settings can supply them later.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Reference.WorkbookPath == "" {
		return fmt.Errorf("reference.workbook_path is required")
	}
	if c.Scheduler.Enabled && c.Scheduler.DispatchCron == "" {
		return fmt.Errorf("scheduler.dispatch_cron is required when the scheduler is enabled")
	}
	return nil
}
