package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventfinder/config"
	_ "eventfinder/docs"
	"eventfinder/internal/adapters/auth"
	"eventfinder/internal/adapters/cache"
	"eventfinder/internal/adapters/email"
	"eventfinder/internal/adapters/geocoding"
	httpdelivery "eventfinder/internal/delivery/http"
	"eventfinder/internal/delivery/http/controllers"
	"eventfinder/internal/delivery/http/middleware"
	"eventfinder/internal/domain"
	"eventfinder/internal/repository/postgres"
	"eventfinder/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := postgres.Open(ctx, cfg.DBUrl, postgres.DefaultOptions())
	cancel()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	geocoder, closeCache := newGeocoder(cfg, logger)
	defer closeCache()

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	tokens := auth.NewJWT(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost), tokens, tokens, emailService, logger)
	eventService := services.NewEventService(eventRepo, geocoder, logger)

	mux := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Prefix:          cfg.APIPrefix,
		Logger:          logger,
		Auth:            controllers.NewAuthController(logger, authService),
		Events:          controllers.NewEventController(logger, eventService),
		Authenticator:   authService,
		EventAuthorizer: eventService,
		DB:              db,
	})
	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, middleware.MetricsMiddleware(mux)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.RequestTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + cfg.GeocoderTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Environment, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel = context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newGeocoder returns nil when no API key is configured. The returned func
// releases the Redis connection, if one was opened.
func newGeocoder(cfg *config.Config, logger *slog.Logger) (domain.Geocoder, func()) {
	noop := func() {}
	if !cfg.GeocodingEnabled() {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, events without coordinates will not be geocoded")
		return nil, noop
	}
	client := geocoding.NewClient(cfg.GeocoderBaseURL, cfg.GoogleMapsAPIKey,
		geocoding.WithTimeout(cfg.GeocoderTimeout),
		geocoding.WithRateLimit(cfg.GeocoderRateLimit),
	)
	if cfg.RedisURL == "" {
		return client, noop
	}
	redisCache, err := cache.NewRedisCache(cache.RedisOptions{
		URL:            cfg.RedisURL,
		Prefix:         "eventfinder:",
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
	})
	if err != nil {
		logger.Warn("redis unavailable, geocoding without cache", "error", err)
		return client, noop
	}
	closeCache := func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}
	return geocoding.NewCachedGeocoder(client, redisCache, cfg.GeocodeCacheTTL, logger), closeCache
}
