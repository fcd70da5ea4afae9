package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsWhenEnvUnset(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "/var/lib/weathercore/grib", cfg.GribBasePath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 0, cfg.WorkerPoolSize)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, 2, cfg.Decimation)
}

func TestLoad_ReadsOverridesFromEnvironment(t *testing.T) {
	t.Setenv("GRIB_FILES_PATH", "/tmp/grib")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WORKER_POOL_SIZE", "8")
	t.Setenv("DEBOUNCE_WINDOW", "500ms")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092,broker-b:9092")
	t.Setenv("DECIMATION", "4")

	cfg := Load()
	assert.Equal(t, "/tmp/grib", cfg.GribBasePath)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 8, cfg.WorkerPoolSize)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 4, cfg.Decimation)
}

func TestLoad_IgnoresUnparseableOverridesAndFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("DEBOUNCE_WINDOW", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceWindow)
}

func TestModelRegistry_CoversGFSAndGFSWave(t *testing.T) {
	gfs, ok := ModelRegistry["gfs"]
	assert.True(t, ok)
	assert.Equal(t, "pgrb2", gfs.Category)

	wave, ok := ModelRegistry["gfswave"]
	assert.True(t, ok)
	assert.Equal(t, ".grib2", wave.Suffix)
}
