package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"travelguide/database"
	"travelguide/internal/config"
	"travelguide/internal/logging"
	"travelguide/internal/microservices/http-api/handler"
	"travelguide/internal/microservices/http-api/middleware"
	"travelguide/internal/microservices/http-api/repository"
	"travelguide/internal/microservices/http-api/service"
	"travelguide/internal/microservices/live"
	"travelguide/pkg/cloudinary"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not set up logging: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server_exited")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}
	defer sqlDB.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	var redisClient *redis.Client
	var cachePinger handler.Pinger
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			// the directory falls back to postgres without it
			logger.WithError(err).Warn("redis_unavailable")
			redisClient = nil
		} else {
			defer redisClient.Close()
			cachePinger = handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
		}
	}

	var uploader cloudinary.ImageUploader
	if cfg.UploadsEnabled() {
		uploader, err = cloudinary.NewClientFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return fmt.Errorf("init cloudinary: %w", err)
		}
	} else {
		logger.Info("image_uploads_disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notificationStats := repository.NewNotificationStats(pool)
	directory := repository.NewCachedUserDirectory(userRepo, redisClient, cfg.UserCacheTTL, logging.Component(logger, "directory"))

	// Live notifications
	registry := live.NewRegistry(logging.Component(logger, "registry"))
	dispatcher := live.NewDispatcher(registry, notificationRepo, directory, live.DispatcherConfig{
		SnippetMaxLength: cfg.NotificationSnippetLength,
	}, logging.Component(logger, "dispatcher"))
	streamer := live.NewStreamer(registry, notificationRepo, cfg.NotificationHistoryLimit, logging.Component(logger, "streamer"))
	heartbeat := live.NewHeartbeat(registry, cfg.HeartbeatInterval, logging.Component(logger, "heartbeat"))

	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()
	go heartbeat.Start(bgCtx)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, directory, cfg)
	userService := service.NewUserService(userRepo, uploader)
	locationService := service.NewLocationService(locationRepo, userRepo, uploader, dispatcher)
	reviewService := service.NewReviewService(reviewRepo, locationRepo, userRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, reviewRepo, userRepo, dispatcher)
	favoriteService := service.NewFavoriteService(favoriteRepo, locationRepo)
	notificationService := service.NewNotificationService(notificationRepo, notificationStats, logging.Component(logger, "notifications"))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go housekeeping(bgCtx, refreshTokenRepo, limiter, logging.Component(logger, "housekeeping"))

	router := newRouter(handlers{
		auth:          handler.NewAuthHandler(authService, logging.Component(logger, "auth")),
		users:         handler.NewUserHandler(userService),
		locations:     handler.NewLocationHandler(locationService),
		reviews:       handler.NewReviewHandler(reviewService),
		comments:      handler.NewCommentHandler(commentService),
		favorites:     handler.NewFavoriteHandler(favoriteService),
		notifications: handler.NewNotificationHandler(notificationService, streamer, cfg.StreamWriteTimeout, logging.Component(logger, "stream")),
		health:        handler.NewHealthHandler(pool, cachePinger, registry),
	}, authService, limiter, cfg.CORSOrigins, logging.Component(logger, "http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// no WriteTimeout: notification streams stay open
		IdleTimeout: 120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("server_starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	cancelBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server_shutdown_incomplete")
	}

	// let in-flight notifications land before the pools close
	dispatcher.Wait()
	logger.Info("server_stopped_gracefully")
	return nil
}

// housekeeping purges expired refresh tokens and idle rate-limit buckets.
func housekeeping(ctx context.Context, tokens repository.RefreshTokenRepository, limiter *middleware.RateLimiter, logger logrus.FieldLogger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			deleted, err := tokens.DeleteExpired(runCtx, now)
			cancel()
			if err != nil {
				logger.WithError(err).Warn("refresh_token_cleanup_failed")
			} else if deleted > 0 {
				logger.WithField("deleted", deleted).Info("refresh_tokens_purged")
			}
			if dropped := limiter.Sweep(); dropped > 0 {
				logger.WithField("dropped", dropped).Debug("rate_limit_buckets_swept")
			}
		}
	}
}
