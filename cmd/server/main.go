package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/banking/merchant-firewall/internal/api"
	"github.com/banking/merchant-firewall/internal/config"
	"github.com/banking/merchant-firewall/internal/directory"
	"github.com/banking/merchant-firewall/internal/events"
	"github.com/banking/merchant-firewall/internal/investigation"
	"github.com/banking/merchant-firewall/internal/ledger"
	"github.com/banking/merchant-firewall/internal/llm"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
	"github.com/banking/merchant-firewall/internal/policy"
	"github.com/banking/merchant-firewall/internal/scoring"
	"github.com/banking/merchant-firewall/internal/telemetry"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	log, err := logger.New(cfg.Telemetry.ServiceName, cfg.Telemetry.Environment, cfg.Telemetry.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// 3. Tracing
	shutdownTracing, err := telemetry.Setup(ctx, &cfg.Telemetry)
	if err != nil {
		log.Fatal("failed to initialize tracing", logger.ErrorField(err))
	}
	defer shutdownTracing(ctx)

	// 4. Ledger Store
	store, err := ledger.New(ctx, &cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect ledger store", logger.ErrorField(err))
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal("failed to migrate ledger store", logger.ErrorField(err))
	}

	// 5. Policy Cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, policy cache disabled", logger.ErrorField(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}
	policies := policy.NewService(store, redisClient, cfg.Redis.PolicyCacheTTL, log)

	// 6. Event Stream
	producer, err := events.NewProducer(&cfg.Kafka, log)
	if err != nil {
		log.Fatal("failed to connect event stream", logger.ErrorField(err))
	}
	if producer != nil {
		defer producer.Close()
	}

	// 7. Merchant Directory
	source := &directory.CSVSource{
		MasterPath:  cfg.Datasets.MasterCSVPath,
		CompanyPath: cfg.Datasets.CompanyCSVPath,
	}
	holder, err := directory.NewHolder(ctx, directory.NewLoader(source, log))
	if err != nil {
		log.Fatal("failed to load merchant directory", logger.ErrorField(err))
	}

	// 8. Decision Engine
	var publisher scoring.EventPublisher
	if producer != nil {
		publisher = producer
	}
	engine := scoring.NewEngine(holder, store, publisher, &cfg.Scoring, log)

	// 9. Investigation Service
	llmClient := llm.NewClient(&cfg.LLM, log)
	builder := investigation.NewContextBuilder(store, store, policies, holder, log)
	investigator := investigation.NewService(builder, llmClient, store, log)

	// 10. HTTP Server
	handlers := api.NewHandlers(engine, investigator, holder, store, store, store, log)
	e := api.NewRouter(cfg, handlers)

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", logger.ErrorField(err))
		}
	}()
	log.Info("server started", logger.StringField("addr", serverAddr))

	// 11. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", logger.ErrorField(err))
	}

	log.Info("server exited")
}
