package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/adapters/handler/http"
	"github.com/vncsmyrnk/elearning/internal/adapters/mail"
	"github.com/vncsmyrnk/elearning/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/elearning/internal/adapters/repository/mongo"
	"github.com/vncsmyrnk/elearning/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elearning/internal/adapters/session/memory"
	"github.com/vncsmyrnk/elearning/internal/adapters/session/redis"
	"github.com/vncsmyrnk/elearning/internal/adapters/token"
	"github.com/vncsmyrnk/elearning/internal/config"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
	"github.com/vncsmyrnk/elearning/internal/core/services"
	"github.com/vncsmyrnk/elearning/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Log.Level, cfg.Production())
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, closeUsers, err := userRepository(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("failed to open user store", zap.Error(err))
	}
	defer closeUsers()

	sessions, closeSessions, err := sessionStore(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("failed to open session store", zap.Error(err))
	}
	defer closeSessions()

	authService := services.NewAuthService(
		users,
		sessions,
		token.NewCodec(cfg.Token),
		mailer(cfg, logg),
		google.NewVerifier(),
		services.AuthConfig{
			ActivationTTL:  cfg.Token.ActivationTTL,
			AccessTTL:      cfg.Token.AccessTTL,
			RefreshTTL:     cfg.Token.RefreshTTL,
			SessionTTL:     cfg.Session.TTL,
			GoogleClientID: cfg.Google.ClientID,
		},
		logger.WithComponent(logg, "auth"),
	)
	userService := services.NewUserService(users, sessions, logger.WithComponent(logg, "users"))

	cookies := http.NewCookies(http.CookieConfig{
		AccessTTL:  cfg.Token.AccessTTL,
		RefreshTTL: cfg.Token.RefreshTTL,
		Secure:     cfg.Production(),
	})
	httpLogger := logger.WithComponent(logg, "http")
	handler := http.NewHandler(
		http.NewAuthHandler(authService, cookies, httpLogger),
		http.NewUserHandler(userService, httpLogger),
		http.NewMiddleware(authService, cookies, httpLogger),
		http.RouterConfig{AllowedOrigins: cfg.Server.AllowedOrigins},
		httpLogger,
	)

	server := &stdhttp.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logg.Info("server listening", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown failed", zap.Error(err))
	}
}

func userRepository(ctx context.Context, cfg *config.Config, logg *zap.Logger) (ports.UserRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.Postgres.ConnString())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logg.Info("user store ready", zap.String("driver", config.DriverPostgres))
		return postgres.NewUserRepository(db), func() { db.Close() }, nil
	default:
		client, err := mongo.Connect(ctx, cfg.Database.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logg.Warn("failed to disconnect from mongo", zap.Error(err))
			}
		}
		repo := mongo.NewUserRepository(client.Database(cfg.Database.Mongo.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		logg.Info("user store ready", zap.String("driver", config.DriverMongo))
		return repo, closeFn, nil
	}
}

func sessionStore(ctx context.Context, cfg *config.Config, logg *zap.Logger) (ports.SessionStore, func(), error) {
	if cfg.Session.Driver == config.DriverMemory {
		logg.Warn("using in-memory sessions; they are lost on restart and not shared between instances")
		return memory.NewStore(), func() {}, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewStore(client, logger.WithComponent(logg, "sessions")), func() { client.Close() }, nil
}

func mailer(cfg *config.Config, logg *zap.Logger) ports.Mailer {
	if cfg.Mail.ResendAPIKey == "" {
		logg.Warn("RESEND_API_KEY is not set; activation codes are written to the log")
		return mail.NewLogMailer(logger.WithComponent(logg, "mail"))
	}
	return mail.NewResendMailer(resend.NewClient(cfg.Mail.ResendAPIKey), cfg.Mail.From)
}
