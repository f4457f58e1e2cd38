package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"printpost-backend/internal/config"
	"printpost-backend/internal/infrastructure/repo"
	"printpost-backend/internal/infrastructure/sendgrid"
	"printpost-backend/internal/infrastructure/stripe"
	"printpost-backend/internal/pricing"
	"printpost-backend/internal/server"
	"printpost-backend/internal/usecase"
)

func main() {
	// First file wins for a key; .env.local overrides .env.
	_ = godotenv.Load(".env.local", ".env")
	envDefaults := config.EnvDefaults()

	env := flag.String("env", envDefaults.Env, "")
	port := flag.Int("port", envDefaults.Port, "")
	baseURL := flag.String("base-url", envDefaults.AppBaseURL, "")
	flag.Parse()

	cfg := envDefaults
	cfg.Env = *env
	cfg.Port = *port
	cfg.AppBaseURL = *baseURL

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		log.Fatal("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required")
	}

	var store usecase.OrderStore
	if cfg.PostgresDSN != "" {
		pg, err := repo.NewPostgresOrderRepo(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		store = pg
	} else {
		log.Printf("no postgres DSN configured, using in-memory order store")
		store = repo.NewMemoryOrderRepo()
	}

	payments := &stripe.Client{
		APIKey:        cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Tolerance:     5 * time.Minute,
	}
	mail := &sendgrid.Client{APIKey: cfg.SendgridAPIKey}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dispatcher := usecase.NewDispatcher(mail, cfg.EmailFrom, cfg.EmailTo, 64)
	go dispatcher.Run(ctx)

	checkout := &usecase.CheckoutService{
		Engine:     pricing.New(cfg.Rates),
		Payments:   payments,
		AppBaseURL: cfg.AppBaseURL,
	}
	webhooks := &usecase.WebhookService{
		Verifier: payments,
		Store:    store,
		Notify:   dispatcher,
	}
	auth := &usecase.OperatorAuth{Secret: cfg.OperatorSecret}

	srv := server.New(cfg, checkout, webhooks, auth, store)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("printpost-backend listening on :%d (env=%s)", cfg.Port, cfg.Env)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}
