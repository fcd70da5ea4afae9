// Package config centralizes environment-driven configuration, in the
// style of the teacher's src/main.go (os.Getenv with sane defaults)
// and
// _examples/original_source/tile_renderers/gfs_render/system_config.py's
// SystemConfig (static MODEL_MAP, GRIB_FILES_PATH).
package config

import (
	"os"
	"strconv"
	"time"

	"weathercore/domain"
)

// Config holds every tunable the service reads at startup.
type Config struct {
	GribBasePath    string
	RedisAddr       string
	RedisDB         int
	Port            string
	DebounceWindow  time.Duration
	WorkerPoolSize  int
	L1TTL           time.Duration
	InterpolatorTTL time.Duration
	MinMaxTTL       time.Duration
	KafkaBrokers    []string
	KafkaTopic      string
	// Decimation is the stride applied to native GRIB grids before
	// triangulation/point-evaluation (spec.md §4.7 step 3, §4.12 step
	// 1). The reference renderer ships 2 at GFS's 0.25° resolution,
	// keeping the O(n^2) Bowyer-Watson triangulation tractable.
	Decimation int
}

// Load reads Config from the environment, falling back to the same
// defaults the reference renderer shipped with.
func Load() Config {
	return Config{
		GribBasePath:    getEnv("GRIB_FILES_PATH", "/var/lib/weathercore/grib"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		Port:            getEnv("PORT", "8080"),
		DebounceWindow:  getEnvDuration("DEBOUNCE_WINDOW", 300*time.Millisecond),
		WorkerPoolSize:  getEnvInt("WORKER_POOL_SIZE", 0), // 0 -> runtime.NumCPU()
		L1TTL:           getEnvDuration("L1_TTL", 2*time.Minute),
		InterpolatorTTL: getEnvDuration("INTERPOLATOR_TTL", 15*time.Minute),
		MinMaxTTL:       getEnvDuration("MINMAX_TTL", 24*time.Hour),
		KafkaBrokers:    splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "weathercore.cache-events"),
		Decimation:      getEnvInt("DECIMATION", 2),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// ModelRegistry is the static model -> file-naming descriptor table,
// carried over from system_config.py's MODEL_MAP.
var ModelRegistry = map[string]domain.ModelDescriptor{
	"gfs": {
		ID:         "gfs",
		FilePrefix: "gfs",
		Category:   "pgrb2",
		Resolution: "0p25",
		Suffix:     "",
	},
	"gfswave": {
		ID:         "gfswave",
		FilePrefix: "gfswave",
		Category:   "global",
		Resolution: "0p25",
		Suffix:     ".grib2",
	},
}
