package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/redis/go-redis/v9"

	api "github.com/mind-engage/cetscore/internal/api/http"
	auth "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/config"
	"github.com/mind-engage/cetscore/internal/db"
	"github.com/mind-engage/cetscore/internal/session"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger := httplog.NewLogger("cetscore", httplog.Options{
		LogLevel:       cfg.SlogLevel(),
		JSON:           cfg.Mode == config.ModeOnline,
		Concise:        cfg.Mode == config.ModeOffline,
		RequestHeaders: cfg.Mode == config.ModeOffline,
		Tags: map[string]string{
			"mode": string(cfg.Mode),
		},
	})
	slog.SetDefault(logger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("session store", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sessions := session.NewService(store, cfg.SessionTTL)
	session.NewSweeper(store, cfg.SweepInterval).Start(ctx)

	if cfg.AdminPassHash == "" {
		slog.Warn("ADMIN_PASS_HASH not set, admin login disabled")
	}

	router := api.NewRouter(api.Deps{
		Sessions:       sessions,
		Auth:           auth.NewAuthService(cfg.AuthHMACSecret, cfg.SessionTTL),
		AdminUser:      cfg.AdminUser,
		AdminPassHash:  cfg.AdminPassHash,
		CORSOrigins:    cfg.CORSOrigins(),
		SecureCookies:  cfg.Mode == config.ModeOnline,
		TrustProxy:     cfg.TrustProxy,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
}

// openStore builds the session store named by SESSION_STORE.
func openStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "sql":
		octx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		dbh, err := db.Open(octx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return session.NewSQLStore(dbh), func() { _ = dbh.Close() }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return session.NewRedisStore(client, "cetscore:session:"), func() { _ = client.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}
