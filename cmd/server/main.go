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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"techshop/internal/config"
	"techshop/internal/es"
	"techshop/internal/handlers"
	"techshop/internal/handlers/cart"
	"techshop/internal/logging"
	"techshop/internal/mykafka"
	"techshop/internal/storage"
	httpserver "techshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := storage.Open(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	caps := storage.DetectCapabilities(db)
	logger.Info("schema capabilities",
		"category_column", caps.HasCategory,
		"image_column", caps.HasImage,
	)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	deps := httpserver.Deps{
		DB: db,
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			Caps:     caps,
			Producer: prod,
		},
		AnalyticsHandler: &handlers.AnalyticsHandler{DB: db},
		AuthHandler: &handlers.AuthHandler{
			DB:        db,
			JWTSecret: []byte(configuration.JWT_SECRET),
			Producer:  prod,
		},
		CartHandler:   &cart.CartHandler{DB: db, Producer: prod},
		ViewerHandler: &handlers.ViewerHandler{DB: db},
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.ProductHandler.ES = esClient
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: es.ProductIndex}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", configuration.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "err", err)
		}
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "err", err)
		}
	}

	logger.Info("shutdown complete")
}
