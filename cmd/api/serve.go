package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	rmcache "loan-origination/internal/adapter/cache"
	httpadp "loan-origination/internal/adapter/http"
	"loan-origination/internal/adapter/middleware"
	"loan-origination/internal/adapter/notify"
	"loan-origination/internal/adapter/render"
	"loan-origination/internal/adapter/repository/mysql"
	"loan-origination/internal/adapter/storage"
	"loan-origination/internal/app"
	"loan-origination/internal/config"
	"loan-origination/internal/domain/filestore"
	"loan-origination/internal/infrastructure/cache"
	"loan-origination/internal/infrastructure/db"
	"loan-origination/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

func serve(parent context.Context, cfg *config.Config, migrate bool) error {
	zl, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if migrate {
		if err := mysql.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := cache.OpenRedis(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeStore()

	renderer, err := render.NewHTML()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var mailer *notify.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewMailer(mysql.NewUserRepository(gdb),
			notify.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass), cfg.SMTPFrom)
	} else {
		logger.Info(ctx, "mail: SMTP not configured, e-mail notifications disabled")
	}

	a := app.New(app.Deps{
		DB:                 gdb,
		Store:              store,
		Renderer:           renderer,
		Cache:              rmcache.NewReadModelCache(rdb, "loans:rm:"),
		CacheTTL:           time.Duration(cfg.CacheTTLSecs) * time.Second,
		Mailer:             mailer,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		RecomputeEstimates: cfg.RecomputeEstimates,
	})

	e := httpadp.NewEcho()
	httpadp.Register(e, a.Handlers, httpadp.RouteConfig{
		JWTSecret:      []byte(cfg.JWTSecret),
		Idempotency:    middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		logger.Info(ctx, "listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (filestore.FileStore, func(), error) {
	switch cfg.StorageBackend {
	case "gcs":
		g, err := storage.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { g.Close(context.Background()) }, nil
	default:
		l, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	}
}
