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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/config"
	"github.com/MrJamesThe3rd/envelope/internal/event"
	"github.com/MrJamesThe3rd/envelope/internal/export"
	envelopeHttp "github.com/MrJamesThe3rd/envelope/internal/http"
	accountHandler "github.com/MrJamesThe3rd/envelope/internal/http/account"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	budgetHandler "github.com/MrJamesThe3rd/envelope/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/envelope/internal/http/category"
	eventsHandler "github.com/MrJamesThe3rd/envelope/internal/http/events"
	exportHandler "github.com/MrJamesThe3rd/envelope/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/envelope/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/envelope/internal/http/matching"
	txHandler "github.com/MrJamesThe3rd/envelope/internal/http/transaction"
	"github.com/MrJamesThe3rd/envelope/internal/importer"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/store"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

const keepAlive = 20 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Logger(os.Stdout).With("app", cfg.App.Name))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	defer backend.Close()

	bus := event.NewBus()

	g, ctx := errgroup.WithContext(ctx)

	if err := startSinks(ctx, g, cfg, bus); err != nil {
		bus.Close()
		return err
	}

	var (
		accountService     = account.NewService(backend.Accounts, bus)
		categoryService    = category.NewService(backend.CategoryTx, bus)
		budgetService      = budget.NewService(backend.Budget, bus)
		transactionService = transaction.NewService(backend.Ledger, bus)
		matchingService    = matching.NewService(backend.Rules, backend.Categories)
		importService      = importer.NewService()
		exportService      = export.NewService(accountService, transactionService, categoryService)
	)

	router := envelopeHttp.New(auth.New(cfg.Auth.JWTSecret), cfg.Server.CORSOrigins, envelopeHttp.Handlers{
		Accounts:     accountHandler.NewHandler(accountService),
		Categories:   categoryHandler.NewHandler(categoryService),
		Transactions: txHandler.NewHandler(transactionService),
		Import:       importHandler.NewHandler(importService, transactionService, matchingService),
		Rules:        matchingHandler.NewHandler(matchingService),
		Budget:       budgetHandler.NewHandler(budgetService),
		Events:       eventsHandler.NewHandler(bus, cfg.Events.BufferSize, keepAlive),
		Export:       exportHandler.NewHandler(exportService),
	})

	// No write timeout: the event stream is long-lived.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		slog.Info("starting server", "port", srv.Addr, "store", cfg.Store.Backend)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Closing the bus ends open event streams so Shutdown can drain.
		bus.Close()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// startSinks forwards bus events to the configured Redis channel and AMQP
// exchange. Each sink gets its own subscription.
func startSinks(ctx context.Context, g *errgroup.Group, cfg *config.Config, bus *event.Bus) error {
	if cfg.Events.RedisURL != "" {
		sink, err := event.NewRedisSink(ctx, cfg.Events.RedisURL, cfg.Events.RedisChannel)
		if err != nil {
			return err
		}

		events, cancel := bus.Subscribe(cfg.Events.BufferSize)

		g.Go(func() error {
			defer sink.Close()
			defer cancel()

			return sink.Run(ctx, events)
		})

		slog.Info("publishing events to redis", "channel", cfg.Events.RedisChannel)
	}

	if cfg.Events.AMQPURL != "" {
		sink, err := event.NewAMQPSink(cfg.Events.AMQPURL, cfg.Events.AMQPExchange)
		if err != nil {
			return err
		}

		events, cancel := bus.Subscribe(cfg.Events.BufferSize)

		g.Go(func() error {
			defer sink.Close()
			defer cancel()

			return sink.Run(ctx, events)
		})

		slog.Info("publishing events to amqp", "exchange", cfg.Events.AMQPExchange)
	}

	return nil
}
