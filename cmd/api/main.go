package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/config"
	chaiHttp "github.com/MrJamesThe3rd/chaibook/internal/http"
	adminHandler "github.com/MrJamesThe3rd/chaibook/internal/http/admin"
	loginHandler "github.com/MrJamesThe3rd/chaibook/internal/http/login"
	officeHandler "github.com/MrJamesThe3rd/chaibook/internal/http/office"
	"github.com/MrJamesThe3rd/chaibook/internal/http/session"
	vendorHandler "github.com/MrJamesThe3rd/chaibook/internal/http/vendor"
	"github.com/MrJamesThe3rd/chaibook/internal/importer"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/storage"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.TokenSecret == "" {
		slog.Error("AUTH_TOKEN_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gate := subscription.NewGate(cfg.Billing.ExpiryWarnDays)

	var (
		accountService = account.NewService(store, gate)
		ledgerService  = ledger.NewService(store)
		billingService = billing.NewService(ledgerService)
		resolver       = auth.NewResolver(accountService, ledgerService, gate)
		tokens         = auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	)

	if err := accountService.SeedAdmin(ctx, cfg.Auth.AdminPassword); err != nil {
		slog.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	var (
		loginH  = loginHandler.NewHandler(resolver, tokens)
		adminH  = adminHandler.NewHandler(accountService, gate)
		officeH = officeHandler.NewHandler(billingService)
		vendorH = vendorHandler.NewHandler(
			accountService,
			ledgerService,
			billingService,
			importer.NewParser(),
			vendorHandler.InvoiceOptions{Currency: cfg.Billing.Currency, DueDays: cfg.Billing.InvoiceDueDays},
		)
	)

	router := chaiHttp.New(
		chaiHttp.Options{AllowedOrigins: cfg.Server.AllowedOrigins},
		session.NewMiddleware(tokens, resolver),
		loginH, adminH, vendorH, officeH,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "storage", cfg.Storage.Driver)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
