package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/auth"
	bidding "marketplace/internal/biddingService"
	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/events"
	model "marketplace/internal/models"
	"marketplace/internal/notification"
	"marketplace/internal/repository"
	review "marketplace/internal/reviewService"
	"marketplace/internal/server"
	"marketplace/internal/tracing"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load config", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("invalid log level, keeping default", map[string]any{"level": cfg.LogLevel})
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "marketplace",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		utils.Fatal("failed to init tracer", map[string]any{"error": err.Error()})
	}

	store, closeStore := openStore(ctx, cfg)
	ratingCache := openRatingCache(ctx, cfg)
	publisher := openPublisher(cfg)

	notifier := notification.NewService(store, publisher)
	biddingSvc := bidding.NewBiddingService(store,
		bidding.WithNotifier(notifier),
		bidding.WithPublisher(publisher),
		bidding.WithMinIncrement(cfg.MinBidIncrement),
	)
	reviewSvc := review.NewReviewService(store, store,
		review.WithRatingCache(ratingCache),
		review.WithPublisher(publisher),
	)

	router := server.SetupRouter(server.Dependencies{
		Bidding:       biddingSvc,
		Reviews:       reviewSvc,
		Notifications: notifier,
		Verifier:      auth.NewTokenVerifier(cfg.JWTSecret),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("starting marketplace server", map[string]any{
			"addr":    cfg.Addr(),
			"storage": cfg.StorageDriver,
			"redis":   cfg.RedisEnabled,
			"kafka":   cfg.KafkaEnabled,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}
	if err := publisher.Close(); err != nil {
		utils.Error("event publisher close failed", map[string]any{"error": err.Error()})
	}
	closeStore()
	if err := shutdownTracer(shutdownCtx); err != nil {
		utils.Error("tracer shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore returns the configured store and the function that releases it
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func()) {
	if cfg.StorageDriver != config.StoragePostgres {
		repo := repository.NewMemoryRepo()
		if cfg.SeedDemoData {
			seedDemoAuctions(repo)
		}
		return repo, func() {}
	}

	pool, err := repository.OpenPostgres(ctx, cfg.PostgresDSN(), cfg.DBMaxConns)
	if err != nil {
		utils.Fatal("failed to connect to postgres", map[string]any{"error": err.Error()})
	}
	if err := repository.RunMigrations(ctx, pool); err != nil {
		utils.Fatal("failed to run migrations", map[string]any{"error": err.Error()})
	}
	repository.SetSlowQueryThreshold(cfg.SlowQueryThreshold())
	return repository.NewPostgresRepo(pool), pool.Close
}

func openRatingCache(ctx context.Context, cfg *config.Config) cache.RatingCache {
	if !cfg.RedisEnabled {
		return cache.NopRatingCache{}
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		utils.Warn("redis unavailable, serving ratings uncached", map[string]any{"error": err.Error()})
		return cache.NopRatingCache{}
	}
	return cache.NewRedisRatingCache(client, cfg.RatingCacheTTL())
}

func openPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, events.DefaultBreakerConfig())
}

// seedDemoAuctions adds sample auctions to the in-memory store
func seedDemoAuctions(repo *repository.MemoryRepo) {
	now := time.Now().UTC()
	auctions := []model.Product{
		{ProductID: "auction1", SellerID: "seller1", Title: "Vintage Film Camera", Category: "cameras", StartingBid: 100, BuyNowPrice: 400, AuctionEnd: now.Add(72 * time.Hour)},
		{ProductID: "auction2", SellerID: "seller1", Title: "Oak Writing Desk", Category: "furniture", StartingBid: 200, AuctionEnd: now.Add(12 * time.Hour)},
		{ProductID: "auction3", SellerID: "seller2", Title: "Signed Vinyl Record", Category: "music", StartingBid: 150, BuyNowPrice: 600, AuctionEnd: now.Add(7 * 24 * time.Hour)},
	}

	for _, p := range auctions {
		p.IsAuction = true
		p.Price = p.StartingBid
		p.CreatedAt = now
		repo.AddProduct(p)
	}
}
