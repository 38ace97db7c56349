package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bobaandbao/storefront/internal/config"
	"github.com/bobaandbao/storefront/internal/db"
	"github.com/bobaandbao/storefront/internal/events"
	"github.com/bobaandbao/storefront/internal/httpserver"
	"github.com/bobaandbao/storefront/internal/logging"
	loggingmw "github.com/bobaandbao/storefront/internal/middleware/logging"
	"github.com/bobaandbao/storefront/internal/notify"
	"github.com/bobaandbao/storefront/internal/payments"
	"github.com/bobaandbao/storefront/internal/pricing"
	"github.com/bobaandbao/storefront/internal/repo"
	"github.com/bobaandbao/storefront/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.StripeSecretKey, "STRIPE_SECRET_KEY")
	config.MustNonEmpty(cfg.AdminJWTSecret, "ADMIN_JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	database, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	gateway, err := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	if err != nil {
		log.Fatalf("payment gateway init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	sender := &notify.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	}

	store := repo.New(database)
	calc := pricing.Calculator{
		ShippingFee:           cfg.ShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
	}

	cartSvc := &service.CartService{Repo: store}
	checkoutSvc := &service.CheckoutService{
		Repo:     store,
		Gateway:  gateway,
		Notifier: sender,
		Producer: producer,
		Calc:     calc,
		BaseURL:  cfg.BaseURL,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		CartHandler:     &httpserver.CartHandler{Svc: cartSvc, Producer: producer},
		CheckoutHandler: &httpserver.CheckoutHandler{Svc: checkoutSvc},
		WebhookHandler:  &httpserver.WebhookHandler{Svc: checkoutSvc, Gateway: gateway},
		AdminHandler:    &httpserver.AdminHandler{Repo: store, Notifier: sender},
		AdminJWTSecret:  []byte(cfg.AdminJWTSecret),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
