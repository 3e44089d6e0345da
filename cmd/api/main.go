package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"orderworks/internal/config"
	"orderworks/internal/db"
	"orderworks/internal/gateway"
	"orderworks/internal/httpserver"
	"orderworks/internal/mail"
	catalogrepo "orderworks/internal/repository/catalogitem"
	customerrepo "orderworks/internal/repository/customer"
	orderrepo "orderworks/internal/repository/order"
	tokenrepo "orderworks/internal/repository/token"
	"orderworks/internal/service/catalog"
	customersvc "orderworks/internal/service/customer"
	"orderworks/internal/service/payment"
	"orderworks/internal/service/processing"
	"orderworks/internal/service/template"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	paymentCfg, err := payment.Load(cfg)
	if err != nil {
		logger.Fatalf("load payment config: %v", err)
	}

	gatewayClient := gateway.New(cfg.GatewayURL, cfg.GatewaySecret, logger)
	mailSender := mail.NewSender(cfg.SMTPAddr)
	families := processing.NewFamilyFactory(paymentCfg, gatewayClient, mailSender, cfg.FromEmail)

	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	customerService := customersvc.New(customerRepo, tokenRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc: customerService,
		Catalog:     catalog.NewFactory(),
		Items:       catalogrepo.NewPostgres(dbpool, logger),
		Orders:      orderrepo.NewPostgres(dbpool, logger),
		Templates:   template.NewRegistry(),
		Families:    families,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
