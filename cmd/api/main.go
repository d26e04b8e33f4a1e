package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avendano/fixhub/backend/internal/config"
	"github.com/avendano/fixhub/backend/internal/handler"
	"github.com/avendano/fixhub/backend/internal/model/catalog"
	"github.com/avendano/fixhub/backend/internal/platform/logger"
	"github.com/avendano/fixhub/backend/internal/service/analytics"
	"github.com/avendano/fixhub/backend/internal/service/dispatch"
	"github.com/avendano/fixhub/backend/internal/service/respond"
	"github.com/avendano/fixhub/backend/internal/service/session"
	"github.com/avendano/fixhub/backend/internal/service/suggest"
	"github.com/avendano/fixhub/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	blobs, err := store.NewSQLite(cfg.Storage.SQLitePath)
	if err != nil {
		appLog.Fatal("failed to open session store", "path", cfg.Storage.SQLitePath, "error", err)
	}
	defer blobs.Close()

	knowledge := catalog.NewMemoryCatalog(catalog.SeedReviews(), catalog.SeedProviders())
	sessions := session.NewManager(blobs, appLog.With("component", "sessions"))
	synth := respond.NewSynthesizer(knowledge)
	engine := suggest.NewEngine()
	agg := analytics.NewAggregator()
	dispatcher := dispatch.NewDispatcher(sessions, synth, engine, agg,
		cfg.Assistant.ReplyDelay, appLog.With("component", "dispatch"))

	router := handler.NewRouter(sessions, dispatcher, agg,
		cfg.Assistant.DefaultLanguage, appLog.With("component", "stream"))

	appLog.Info("assistant backend starting",
		"addr", cfg.Server.Addr,
		"sqlite_path", cfg.Storage.SQLitePath,
		"reply_delay", cfg.Assistant.ReplyDelay.String(),
		"default_language", cfg.Assistant.DefaultLanguage,
	)

	startServer(ctx, cfg.Server, router, appLog)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, appLog *logger.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	appLog.Info("listening", "addr", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		appLog.Fatal("server error", "error", err)
	}
	appLog.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
