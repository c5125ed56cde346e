package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("tourguide-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Rewards.ProximityBuffer)
	assert.Equal(t, 200.0, cfg.Rewards.AttractionProximityRange)
	assert.Equal(t, 65, cfg.Rewards.WorkerPoolSize)
	assert.Equal(t, 5*time.Minute, cfg.Tracker.Interval)
	assert.Equal(t, "memory", cfg.Catalog.Source)
	assert.Equal(t, 100, cfg.Simulation.InternalUserCount)
	assert.Equal(t, "reward-sweep", cfg.Temporal.TaskQueue)
	assert.Equal(t, "tourguide-test", cfg.Telemetry.ServiceName)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TOURGUIDE_REWARDS_WORKER_POOL_SIZE", "8")
	t.Setenv("TOURGUIDE_REWARDS_PROXIMITY_BUFFER", "25.5")
	t.Setenv("TOURGUIDE_TRACKER_INTERVAL", "30s")

	cfg, err := Load("tourguide-test")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Rewards.WorkerPoolSize)
	assert.Equal(t, 25.5, cfg.Rewards.ProximityBuffer)
	assert.Equal(t, 30*time.Second, cfg.Tracker.Interval)
}

func TestLoad_InvalidEnvFailsValidation(t *testing.T) {
	t.Setenv("TOURGUIDE_REWARDS_WORKER_POOL_SIZE", "0")

	_, err := Load("tourguide-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewards.worker_pool_size")
}

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 30},
		Rewards:  RewardsConfig{ProximityBuffer: 10, AttractionProximityRange: 200, WorkerPoolSize: 65, ScoreTimeout: time.Second},
		Tracker:  TrackerConfig{Enabled: true, Interval: time.Minute},
		Catalog:  CatalogConfig{Source: "memory"},
		Temporal: TemporalConfig{TaskQueue: "reward-sweep"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Rewards.WorkerPoolSize = -1
	cfg.Catalog.Source = "s3"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "rewards.worker_pool_size")
	assert.Contains(t, err.Error(), "catalog.source")
}

func TestValidate_PostgresRequiresDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Source = "postgres"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")

	cfg.Database = DatabaseConfig{Host: "db", Port: 5432, User: "u", DBName: "tourguide"}
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "tg", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/tg?sslmode=disable", d.DSN())
}
