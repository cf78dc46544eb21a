package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"carteira/internal/app"
	"carteira/internal/config"
	"carteira/internal/database"
	"carteira/internal/logger"
	"carteira/internal/middleware"
	"carteira/internal/notify"
	"carteira/internal/services"
	"carteira/internal/sheets"
	"carteira/internal/store"
)

// @title           Carteira API
// @version         1.0
// @description     Carteira keeps a user's monthly expenses and incomes, with live month totals.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Change feed: in-process only unless a broker is configured
	hub := notify.NewHub()
	var pub notify.Publisher
	if cfg.AMQP.Enabled() {
		bridge, err := notify.DialBridge(cfg.AMQP.URL, cfg.AMQP.Exchange, hub)
		if err != nil {
			return fmt.Errorf("failed to connect to the change feed: %w", err)
		}
		defer bridge.Close()
		pub = bridge
		g.Go(func() error { return bridge.Run(ctx) })
	}

	var opts []services.LedgerOption
	if cfg.Sheets.Enabled() {
		client, err := sheets.New(ctx, cfg.Sheets)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		opts = append(opts, services.WithSheetWriter(client))
		log.Infow("spreadsheet export enabled", "sheet", cfg.Sheets.SheetName)
	}

	tokens := middleware.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	entries := store.NewGormStore(dbManager.DB(), hub, pub)
	router := app.NewRouter(app.NewDeps(dbManager.DB(), entries, tokens, opts...))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g.Go(func() error {
		log.Infof("Starting Carteira backend server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
