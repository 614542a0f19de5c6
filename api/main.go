package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/auth"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/config"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/db"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/export"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/extractor"
	internalhttp "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/ban"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/handlers"
	rl "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/rate_limiter"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/ner"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/pipeline"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/redissvc"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/telegram"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer logger.Sync()

	auth.SetSecret(cfg.JWTSecret)
	rl.Configure(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	ban.SetBanStrikes(cfg.Rate.BanStrikes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	redisService := redissvc.NewRedisService(rdb, context.Background())
	ban.SetRedisService(redisService)
	handlers.SetRefreshStore(auth.NewRedisRefreshStore(redisService, 0))

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}
	defer database.Close()

	channelRepo := repo.NewPostgresChannelRepository(database)
	messageRepo := repo.NewPostgresMessageRepository(database)
	entityRepo := repo.NewPostgresEntityRepository(database)

	handlers.SetChannelRepo(channelRepo)
	handlers.SetMessageRepo(messageRepo)
	handlers.SetEntityRepo(entityRepo)
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))
	handlers.SetAnalyticsRepo(repo.NewPostgresAnalyticsRepository(database))

	labeler := ner.NewLabeler(cfg.NER.ExtraLocations, cfg.NER.ExtraProductKeywords)
	handlers.SetDatasetBuilder(export.NewBuilder(messageRepo, labeler))

	if cfg.S3Enabled() {
		uploader, err := export.NewS3Uploader(cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix)
		if err != nil {
			logger.Fatal("could not configure S3 uploader", zap.Error(err))
		}
		handlers.SetUploader(uploader)
	}

	rules := extractor.NewRulesExtractor(labeler)
	var llm extractor.Client
	if cfg.Gemini.APIKey != "" {
		gemini, err := extractor.NewGeminiExtractor(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
		if err != nil {
			logger.Fatal("could not create Gemini client", zap.Error(err))
		}
		llm = gemini
	} else {
		logger.Warn("no Gemini API key configured, running rules-only extraction")
	}

	processor := pipeline.NewProcessor(messageRepo, entityRepo, rules, llm, cfg.Pipeline.MaxAttempts, logger)
	queue := pipeline.NewQueue(cfg.Pipeline.WorkerMax, logger)
	manager := pipeline.NewManager(cfg.Pipeline, queue, processor, logger)
	manager.Start(ctx)
	handlers.SetPipeline(manager)

	if cfg.Telegram.Token != "" {
		poller := telegram.NewPoller(
			telegram.NewClient(cfg.Telegram.Token),
			cfg.Telegram.Channels,
			messageRepo,
			channelRepo,
			redisService,
			manager,
			cfg.Telegram.PollTimeout,
			cfg.Telegram.DedupTTL,
			logger,
		)
		go poller.Run(ctx)
	} else {
		logger.Warn("no Telegram token configured, ingestion limited to the /ingest endpoint")
	}

	go rl.StartVisitorCleanupLoop()
	go ban.StartDailyBanSummary(24 * time.Hour)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: internalhttp.NewRouter(),
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	manager.CloseIntake()
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), shutdownTimeout)
	if !manager.DrainUntil(drainCtx) {
		logger.Warn("pipeline drain timed out, some messages stay pending")
	}
	cancelDrain()
	manager.Stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped cleanly")
}
