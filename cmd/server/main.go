package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innovatube/backend/internal/auth"
	"innovatube/backend/internal/captcha"
	"innovatube/backend/internal/database"
	"innovatube/backend/internal/handlers"
	"innovatube/backend/internal/notifications"
	"innovatube/backend/internal/repository"
	"innovatube/backend/internal/router"
	"innovatube/backend/internal/services"
	"innovatube/backend/internal/youtube"
	"innovatube/backend/pkg/config"
	"innovatube/backend/pkg/features"
	applog "innovatube/backend/pkg/log"
	"innovatube/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := applog.Init(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer applog.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

// stores agrupa os repositórios escolhidos pelo DATABASE_DRIVER.
type stores struct {
	users     repository.UserRepository
	favorites repository.FavoriteRepository
	ping      handlers.PingFunc
}

func openStores(cfg *config.AppConfig, logger *zap.Logger) (*stores, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return &stores{
			users:     repository.NewMemoryUserRepository(),
			favorites: repository.NewMemoryFavoriteRepository(),
		}, nil
	}

	db, err := database.Connect(cfg.DSN(), cfg.LogLevel == "debug")
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established")

	if cfg.RunMigrations {
		if err := database.Migrate(db, logger); err != nil {
			return nil, err
		}
	}

	return &stores{
		users:     repository.NewGormUserRepository(db),
		favorites: repository.NewGormFavoriteRepository(db),
		ping:      func(ctx context.Context) error { return database.Ping(ctx, db) },
	}, nil
}

func newMailer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (notifications.Mailer, error) {
	if cfg.MailConfigured() {
		return notifications.NewSESMailer(ctx, cfg.AWSRegion, cfg.AWSSESEmailSender, cfg.MailFromName, logger)
	}
	logger.Warn("AWS SES not configured; password reset e-mails will only be logged")
	return notifications.NewLogMailer(logger, !cfg.IsProduction()), nil
}

// newVideoSearcher envolve o cliente do YouTube com o cache Redis quando REDIS_URL está definido.
func newVideoSearcher(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (youtube.Searcher, error) {
	client, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, features.New(cfg.FeatureToggles), logger)
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" {
		return client, nil
	}
	rdb, err := youtube.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("YouTube search cache enabled", zap.Duration("ttl", cfg.YouTubeCacheTTL))
	return youtube.NewCachedClient(client, rdb, cfg.YouTubeCacheTTL, logger), nil
}

func run(cfg *config.AppConfig, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.SetAppInfo(cfg.AppVersion, cfg.Environment)

	st, err := openStores(cfg, logger)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTokenLifespan)
	if err != nil {
		return err
	}
	verifier, err := captcha.NewVerifier(cfg.RecaptchaSecretKey, cfg.RecaptchaVerifyURL, cfg.RecaptchaMinScore, cfg.IsProduction(), logger)
	if err != nil {
		return err
	}
	mailer, err := newMailer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	videos, err := newVideoSearcher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.SetupRouter(ctx, router.Deps{
		Config:    cfg,
		Log:       logger,
		Sessions:  tokens,
		Auth:      services.NewAuthService(st.users, tokens, verifier, mailer, cfg.FrontendURL, logger),
		Favorites: services.NewFavoriteService(st.favorites, logger),
		Videos:    videos,
		Ping:      st.ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server exited")
	return nil
}
