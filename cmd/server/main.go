package main

import (
	"log"

	"github.com/redis/go-redis/v9"

	"weathercore/cache"
	"weathercore/config"
	"weathercore/grib"
	"weathercore/orchestrator"
	"weathercore/pkg/audit"
	"weathercore/pkg/eventbus"
	"weathercore/resolver"
	"weathercore/singleflight"
	"weathercore/workerpool"
)

func main() {
	// 1. Configuration
	cfg := config.Load()

	// 2. Core infrastructure: shared Redis tier and process-local tier
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()

	l2 := cache.NewRedisKVCache(rdb)
	interpL1 := cache.NewLocalStore(cfg.L1TTL)
	minMaxL1 := cache.NewLocalStore(cfg.L1TTL)
	defer interpL1.Shutdown()
	defer minMaxL1.Shutdown()

	interpCache := cache.NewTwoTierCache(interpL1, l2, cfg.DebounceWindow)
	minMaxCache := cache.NewTwoTierCache(minMaxL1, l2, cfg.DebounceWindow)
	valueDictL1 := cache.NewLocalStore(cfg.L1TTL)
	defer valueDictL1.Shutdown()

	// 3. File resolution and decoding
	fileResolver := resolver.New(cfg.GribBasePath, config.ModelRegistry)
	decoder := grib.NewWgrib2Decoder("")

	// 4. Concurrency primitives
	sf := singleflight.New()
	pool := workerpool.New(cfg.WorkerPoolSize)

	// 5. Ambient observability
	auditLogger := audit.NewAsyncLogger()
	defer auditLogger.Close()

	var bus eventbus.Bus = eventbus.NoopBus{}
	if len(cfg.KafkaBrokers) > 0 {
		kb := eventbus.NewKafkaBus(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kb.Close()
		bus = kb
	}

	// 6. Orchestration
	orch := &orchestrator.Orchestrator{
		Resolver:       fileResolver,
		Decoder:        decoder,
		InterpCache:    interpCache,
		MinMaxCache:    minMaxCache,
		ValueDictCache: valueDictL1,
		SF:             sf,
		Workers:        pool,
		Decimation:     cfg.Decimation,
		Audit:          auditLogger,
		Events:         bus,
	}

	// 7. HTTP routing
	srv := &server{orch: orch}
	router := srv.routes()

	log.Printf("weathercore starting on :%s (grib base=%s, redis=%s, workers=%d)",
		cfg.Port, cfg.GribBasePath, cfg.RedisAddr, pool.Size())

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("weathercore: server exited: %v", err)
	}
}
