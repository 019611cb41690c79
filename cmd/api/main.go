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

	"github.com/MrJamesThe3rd/spendwise/internal/advisor"
	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	budgetMemory "github.com/MrJamesThe3rd/spendwise/internal/budget/memory"
	budgetStore "github.com/MrJamesThe3rd/spendwise/internal/budget/store"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	spendwiseHttp "github.com/MrJamesThe3rd/spendwise/internal/http"
	aiHandler "github.com/MrJamesThe3rd/spendwise/internal/http/ai"
	analyticsHandler "github.com/MrJamesThe3rd/spendwise/internal/http/analytics"
	authHandler "github.com/MrJamesThe3rd/spendwise/internal/http/auth"
	budgetHandler "github.com/MrJamesThe3rd/spendwise/internal/http/budget"
	exportHandler "github.com/MrJamesThe3rd/spendwise/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/spendwise/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/spendwise/internal/http/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/http/middleware"
	profileHandler "github.com/MrJamesThe3rd/spendwise/internal/http/profile"
	txHandler "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	matchingMemory "github.com/MrJamesThe3rd/spendwise/internal/matching/memory"
	matchingStore "github.com/MrJamesThe3rd/spendwise/internal/matching/store"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txMemory "github.com/MrJamesThe3rd/spendwise/internal/transaction/memory"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
	"github.com/MrJamesThe3rd/spendwise/internal/user"
	userMemory "github.com/MrJamesThe3rd/spendwise/internal/user/memory"
	userStore "github.com/MrJamesThe3rd/spendwise/internal/user/store"
)

type repositories struct {
	users        user.Repository
	budgets      budget.Repository
	transactions transaction.Repository
	hints        matching.Repository
	close        func()
}

// openRepositories picks Postgres when a database is configured and the
// in-memory stores otherwise.
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if !cfg.UseDatabase() {
		slog.Info("no database configured, keeping data in memory")

		return &repositories{
			users:        userMemory.New(),
			budgets:      budgetMemory.New(),
			transactions: txMemory.New(),
			hints:        matchingMemory.New(),
			close:        func() {},
		}, nil
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	slog.Info("connected to postgres")

	return &repositories{
		users:        userStore.New(db),
		budgets:      budgetStore.New(db),
		transactions: txStore.New(db),
		hints:        matchingStore.New(db),
		close: func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		},
	}, nil
}

func aiProviders(ctx context.Context, cfg *config.Config) []advisor.Provider {
	var providers []advisor.Provider

	if cfg.AI.GeminiKey != "" {
		gemini, err := advisor.NewGemini(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiModel)
		if err != nil {
			slog.Warn("failed to init gemini, skipping", "error", err)
		} else {
			providers = append(providers, gemini)
		}
	}

	if cfg.AI.OpenAIKey != "" {
		providers = append(providers, advisor.NewOpenAI(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel))
	}

	return providers
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	adv := advisor.New(cfg.AI.Timeout, aiProviders(ctx, cfg)...)

	var (
		userService        = user.NewService(repos.users, user.NewGoogleUserinfo())
		budgetService      = budget.NewService(repos.budgets, adv)
		matchingService    = matching.NewService(repos.hints)
		transactionService = transaction.NewService(repos.transactions, classifier.New(), matchingService)
		importService      = importer.NewService()
		exportService      = export.NewService(transactionService)
	)

	router := spendwiseHttp.New(spendwiseHttp.Handlers{
		Auth:         authHandler.NewHandler(userService, tokens),
		Profile:      profileHandler.NewHandler(userService),
		Budget:       budgetHandler.NewHandler(budgetService),
		Transactions: txHandler.NewHandler(transactionService),
		Analytics:    analyticsHandler.NewHandler(transactionService),
		Matching:     matchingHandler.NewHandler(matchingService),
		Import:       importHandler.NewHandler(importService, transactionService),
		Export:       exportHandler.NewHandler(exportService),
		AI:           aiHandler.NewHandler(adv),
	}, spendwiseHttp.Options{
		Tokens:      tokens,
		CORSOrigins: cfg.Server.CORSOrigins,
		AILimiter:   middleware.NewRateLimiter(cfg.AI.RateLimit, cfg.AI.RateBurst),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.AI.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
