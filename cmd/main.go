package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herald/internal/adapters/binance"
	"herald/internal/adapters/config"
	"herald/internal/adapters/errors/noop"
	"herald/internal/adapters/errors/sentry"
	"herald/internal/adapters/redis"
	"herald/internal/adapters/telegram"
	"herald/internal/analysis"
	"herald/internal/domain/news"
	"herald/internal/metrics"
	"herald/internal/services/aggregator"
	"herald/internal/services/digest"
	"herald/internal/services/dispatch"
	"herald/internal/sources"
	"herald/internal/workers"
	"herald/pkg/errors"
	"herald/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Register()

	// Delivered-link index: Redis when configured, in-memory otherwise
	dedup, redisClient := initDedupIndex(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Market data and indicators
	marketClient := binance.NewClient(binance.Config{})
	indicators := analysis.NewIndicatorProvider(marketClient, cfg.News.IndicatorWindow)

	// Aggregation pipeline
	registry := sources.NewRegistry(cfg.News.AdapterTimeout)
	scorer := analysis.NewSentimentScorer()
	agg := aggregator.New(registry, dedup, scorer, indicators, cfg.News.MaxArticlesPerTopic)

	// Subscriptions
	defaultTopics, err := cfg.News.DefaultTopicSet()
	if err != nil {
		log.Fatalf("Invalid default topics: %v", err)
	}
	defaultFreq, err := cfg.News.DefaultFrequencyValue()
	if err != nil {
		log.Fatalf("Invalid default frequency: %v", err)
	}
	subs := news.NewSubscriptionStore(defaultTopics, defaultFreq)

	// Outbound transport and delivery
	bot, err := telegram.NewBot(telegram.Config{
		Token:          cfg.Telegram.BotToken,
		Debug:          cfg.Telegram.Debug,
		HTTPTimeout:    cfg.Telegram.HTTPTimeout,
		RateLimitRate:  cfg.Telegram.RateLimitRate,
		RateLimitBurst: cfg.Telegram.RateLimitBurst,
	}, log)
	if err != nil {
		log.Fatalf("Failed to create Telegram bot: %v", err)
	}

	disp := dispatch.New(bot, dedup, cfg.News.InterMessageDelay)
	digestSvc := digest.New(agg, disp)

	telegram.NewHandlers(bot, subs, digestSvc, cfg.App.Name, log)

	// Delivery jobs
	scheduler := workers.NewScheduler()
	scheduler.Register(
		workers.NewDigestJob("hourly_digest", news.FrequencyHourly, subs, digestSvc),
		&workers.IntervalSchedule{Interval: cfg.Jobs.HourlyInterval, Warmup: cfg.Jobs.HourlyWarmup},
	)
	scheduler.Register(
		workers.NewDigestJob("daily_digest", news.FrequencyDaily, subs, digestSvc),
		&workers.DailySchedule{Hour: cfg.Jobs.DailyHour, Minute: cfg.Jobs.DailyMinute},
	)
	scheduler.Register(
		workers.NewDigestJob("breaking_digest", news.FrequencyBreaking, subs, digestSvc),
		&workers.ManualSchedule{},
	)

	log.Info("System initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, cfg.App.Name)
		metricsServer.Start()
	}

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	go func() {
		if err := bot.Start(ctx); err != nil {
			log.Errorf("Telegram bot error: %v", err)
		}
	}()

	waitForShutdown(ctx, cancel, scheduler, metricsServer, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initDedupIndex selects the delivered-link index. Redis keeps links
// across restarts; without it the index is process-local.
func initDedupIndex(cfg *config.Config, log *logger.Logger) (news.DedupIndex, *redis.Client) {
	if !cfg.Redis.Enabled() {
		log.Info("Dedup index: in-memory (links reset on restart)")
		return news.NewMemoryIndex(), nil
	}

	client, err := redis.NewClient(redis.Config{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warnf("Failed to connect to Redis, falling back to in-memory dedup: %v", err)
		return news.NewMemoryIndex(), nil
	}

	log.Infof("Dedup index: Redis at %s", cfg.Redis.Addr())
	return redis.NewDedupIndex(client), client
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, scheduler *workers.Scheduler, metricsServer *metrics.Server, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler stop: %v", err)
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Metrics server shutdown: %v", err)
		}
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
