package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/emgimbal/shop/internal/config"
	"github.com/emgimbal/shop/internal/es"
	"github.com/emgimbal/shop/internal/handlers"
	"github.com/emgimbal/shop/internal/logging"
	"github.com/emgimbal/shop/internal/mailer"
	authmw "github.com/emgimbal/shop/internal/middleware/auth"
	"github.com/emgimbal/shop/internal/mykafka"
	"github.com/emgimbal/shop/internal/payments"
	"github.com/emgimbal/shop/internal/token"
	httpserver "github.com/emgimbal/shop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(configuration.EMAIL_SENDER_KEY, "EMAIL_SENDER_KEY")
	config.MustNonEmpty(configuration.STRIPE_SECRET, "STRIPE_SECRET_KEY")

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokens := token.NewService([]byte(configuration.JWT_SECRET))
	mail := mailer.New(configuration.EMAIL_API_URL, configuration.EMAIL_SENDER_KEY, configuration.EMAIL_SENDER, logger)
	gateway := payments.NewClient(configuration.STRIPE_API_URL, configuration.STRIPE_SECRET)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())

	deps := httpserver.Deps{
		DB:              db,
		Guard:           &authmw.Guard{DB: db, Tokens: tokens},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, ES: esClient},
		PurchaseHandler: &handlers.PurchaseHandler{DB: db, Producer: prod, Mailer: mail},
		UserHandler:     &handlers.UserHandler{DB: db, Producer: prod, Tokens: tokens},
		PaymentHandler:  &handlers.PaymentHandler{Gateway: gateway},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: es.ProductIndex},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
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

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
