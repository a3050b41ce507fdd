package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" validate:"required"`
	Collections CollectionsConfig `mapstructure:"collections" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// RequestTimeout bounds each API request. Zero disables it.
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig contains all database-related configuration settings.
// For sqlite, URL is a file path; for postgres, a connection URL.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// SchedulerConfig tunes the forgetting-curve engine and the scheduler.
type SchedulerConfig struct {
	DesiredRetention    float64       `mapstructure:"desired_retention" validate:"gt=0,lt=1"`
	MaximumIntervalDays float64       `mapstructure:"maximum_interval_days" validate:"gte=1,lte=36500"`
	Weights             []float64     `mapstructure:"weights" validate:"weights"`
	DefaultLimit        int           `mapstructure:"default_limit" validate:"gt=0"`
	StatsCacheTTL       time.Duration `mapstructure:"stats_cache_ttl" validate:"gt=0"`
	WriterQueueSize     int           `mapstructure:"writer_queue_size" validate:"gt=0"`
}

// CollectionsConfig decides what deleting a collection does to its cards.
type CollectionsConfig struct {
	DeletePolicy string `mapstructure:"delete_policy" validate:"required,oneof=detach cascade"`
}
