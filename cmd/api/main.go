package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/cache"
	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/coupon"
	"shopfront/internal/events"
	"shopfront/internal/handler"
	"shopfront/internal/order"
	"shopfront/internal/pricing"
	"shopfront/internal/repository"
	"shopfront/internal/router"
	"shopfront/internal/store"
	"shopfront/internal/wishlist"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopfront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the document store
	docStore, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize document store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := docStore.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("failed to close document store")
		}
	}()

	// Initialize repositories
	cartRepo := repository.NewCartRepository(docStore, logger)
	orderRepo := repository.NewOrderRepository(docStore, logger)
	productRepo := repository.NewProductRepository(docStore, logger)
	wishlistRepo := repository.NewWishlistRepository(docStore, logger)

	// Initialize cart cache
	var cartCache cache.CartCache = cache.Noop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, cart caching disabled")
		} else {
			cartCache = cache.NewRedisCache(redisClient)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("cart cache enabled")
		}
	}

	// Initialize coupon loader with S3 and local fallback
	fileLoader := coupon.NewFileLoader(logger)
	var couponLoader coupon.Loader = fileLoader

	if cfg.Coupons.S3Enabled {
		s3Loader, err := coupon.NewS3Loader(ctx, cfg.Coupons.S3Bucket, cfg.Coupons.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			couponLoader = coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.Coupons.S3Prefix, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for coupon files (S3 disabled)")
	}

	// Load the coupon table. A missing file is not fatal: the store runs
	// without promotions until one is provided.
	couponTable, err := couponLoader.Load(ctx, cfg.Coupons.FilePath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Coupons.FilePath).Msg("no coupon table loaded")
		couponTable = coupon.NewTable(nil)
	} else {
		logger.Info().Int("coupons", couponTable.Size()).Msg("coupon table loaded")
	}

	shipping := pricing.ShippingPolicy{
		FlatFee:       cfg.Pricing.ShippingFlatFee,
		FreeThreshold: cfg.Pricing.FreeShippingThreshold,
	}

	// Initialize the order event publisher
	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, 256, logger)
		kafkaPublisher.Start(ctx)
		defer func() {
			cancel()
			kafkaPublisher.WaitClosed()
		}()
		publisher = kafkaPublisher
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("order events enabled")
	}

	// Initialize services
	catalogService := catalog.NewService(productRepo, logger)
	cartService := cart.NewService(cartRepo, cartCache, couponTable, shipping, logger)
	orderService := order.NewService(orderRepo, cartRepo, cartCache, couponTable, shipping, publisher, logger)
	wishlistService := wishlist.NewService(wishlistRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, catalogService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	wishlistHandler := handler.NewWishlistHandler(wishlistService, logger)

	// Initialize router
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	mux := router.New(productHandler, cartHandler, orderHandler, wishlistHandler, verifier, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
