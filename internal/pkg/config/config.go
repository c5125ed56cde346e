package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
	Rewards    RewardsConfig    `mapstructure:"rewards"`
	Tracker    TrackerConfig    `mapstructure:"tracker"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RewardsConfig tunes the reward engine and its worker pool.
type RewardsConfig struct {
	ProximityBuffer          float64       `mapstructure:"proximity_buffer"`
	AttractionProximityRange float64       `mapstructure:"attraction_proximity_range"`
	WorkerPoolSize           int           `mapstructure:"worker_pool_size"`
	ScoreTimeout             time.Duration `mapstructure:"score_timeout"`
	ScoreRateLimit           float64       `mapstructure:"score_rate_limit"` // calls/sec, 0 disables
	ScoreBurst               int           `mapstructure:"score_burst"`
}

type TrackerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type CatalogConfig struct {
	Source   string        `mapstructure:"source"` // memory | postgres
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SimulationConfig struct {
	InternalUserCount int           `mapstructure:"internal_user_count"`
	TestMode          bool          `mapstructure:"test_mode"`
	TripPricerAPIKey  string        `mapstructure:"trip_pricer_api_key"`
	GPSLatency        time.Duration `mapstructure:"gps_latency"`
	RewardLatency     time.Duration `mapstructure:"reward_latency"`
}

type TemporalConfig struct {
	HostPort      string        `mapstructure:"host_port"`
	TaskQueue     string        `mapstructure:"task_queue"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TOURGUIDE_REWARDS_WORKER_POOL_SIZE → rewards.worker_pool_size
	v.SetEnvPrefix("TOURGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tourguide")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "tourguide")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rewards.proximity_buffer", 10)
	v.SetDefault("rewards.attraction_proximity_range", 200)
	v.SetDefault("rewards.worker_pool_size", 65)
	v.SetDefault("rewards.score_timeout", 5*time.Second)
	v.SetDefault("rewards.score_rate_limit", 0)
	v.SetDefault("rewards.score_burst", 100)

	v.SetDefault("tracker.enabled", true)
	v.SetDefault("tracker.interval", 5*time.Minute)

	v.SetDefault("catalog.source", "memory")
	v.SetDefault("catalog.cache_ttl", 10*time.Minute)

	v.SetDefault("simulation.internal_user_count", 100)
	v.SetDefault("simulation.test_mode", true)
	v.SetDefault("simulation.trip_pricer_api_key", "test-server-api-key")
	v.SetDefault("simulation.gps_latency", 0)
	v.SetDefault("simulation.reward_latency", 0)

	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.task_queue", "reward-sweep")
	v.SetDefault("temporal.sweep_interval", 15*time.Minute)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Catalog.Source == "postgres" {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	} else if c.Catalog.Source != "memory" {
		errs = append(errs, fmt.Sprintf("catalog.source must be memory or postgres, got %q", c.Catalog.Source))
	}
	if c.Rewards.ProximityBuffer < 0 {
		errs = append(errs, "rewards.proximity_buffer must not be negative")
	}
	if c.Rewards.AttractionProximityRange < 0 {
		errs = append(errs, "rewards.attraction_proximity_range must not be negative")
	}
	if c.Rewards.WorkerPoolSize <= 0 {
		errs = append(errs, fmt.Sprintf("rewards.worker_pool_size must be positive, got %d", c.Rewards.WorkerPoolSize))
	}
	if c.Rewards.ScoreTimeout <= 0 {
		errs = append(errs, "rewards.score_timeout must be positive")
	}
	if c.Rewards.ScoreRateLimit < 0 {
		errs = append(errs, "rewards.score_rate_limit must not be negative")
	}
	if c.Rewards.ScoreRateLimit > 0 && c.Rewards.ScoreBurst <= 0 {
		errs = append(errs, "rewards.score_burst must be positive when rate limiting")
	}
	if c.Tracker.Enabled && c.Tracker.Interval <= 0 {
		errs = append(errs, "tracker.interval must be positive")
	}
	if c.Simulation.InternalUserCount < 0 {
		errs = append(errs, "simulation.internal_user_count must not be negative")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
