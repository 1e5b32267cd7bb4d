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

	"github.com/rauldpena/delicia/backend/internal/config"
	"github.com/rauldpena/delicia/backend/internal/handler"
	"github.com/rauldpena/delicia/backend/internal/handler/orders"
	"github.com/rauldpena/delicia/backend/internal/model/menu"
	"github.com/rauldpena/delicia/backend/internal/service/ai"
	"github.com/rauldpena/delicia/backend/internal/service/assistant"
	"github.com/rauldpena/delicia/backend/internal/service/history"
	"github.com/rauldpena/delicia/backend/internal/service/session"
	"github.com/rauldpena/delicia/backend/internal/service/tools"
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

	catalog := menu.NewMemoryCatalog(menu.Seed())
	sessions := session.NewStore()
	histories := history.NewStore(cfg.Assistant.MaxMessagesPerSession)
	toolSurface := tools.New(catalog, sessions)

	// The backend is optional: without credentials every reply comes from
	// the deterministic template generator.
	var backend ai.TextGenerator
	if cfg.AI.Enabled() {
		client, err := ai.NewClient(ctx, cfg.AI, catalog)
		if err != nil {
			log.Printf("warning: failed to initialize backend client: %v", err)
			log.Println("continuing with template responses only")
		} else {
			backend = client
			log.Println("backend client initialized successfully")
		}
	} else {
		log.Println("backend credentials not configured, using template responses only")
	}

	engine := ai.NewEngine(backend, ai.NewGenerator(toolSurface, catalog))

	hub := orders.NewHub()
	svc := assistant.New(sessions, histories, engine, toolSurface, hub)

	sweeper := assistant.NewSweeper(svc, cfg.Assistant)
	sweeper.Start()
	defer sweeper.Stop()

	router := handler.NewRouter(svc, catalog, hub)
	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Delicia assistant backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
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
