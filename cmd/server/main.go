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

	"github.com/craftline/orderdesk/internal/auth"
	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/config"
	"github.com/craftline/orderdesk/internal/es"
	"github.com/craftline/orderdesk/internal/handlers"
	"github.com/craftline/orderdesk/internal/images"
	"github.com/craftline/orderdesk/internal/logging"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/notify"
	"github.com/craftline/orderdesk/internal/resolver"
	"github.com/craftline/orderdesk/internal/search"
	"github.com/craftline/orderdesk/internal/sms"
	"github.com/craftline/orderdesk/internal/store"
	httpserver "github.com/craftline/orderdesk/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	st := store.New(db)
	res := resolver.New(db)
	imgs := images.NewResolver(configuration.IMAGE_MAX_BYTES)
	authSvc := auth.NewService(st, []byte(configuration.JWT_SECRET))
	smsClient := sms.NewClient(
		configuration.TWILIO_ACCOUNT_SID,
		configuration.TWILIO_AUTH_TOKEN,
		configuration.TWILIO_PHONE_NUMBER,
	)

	notifiers := notify.Fanout{notify.LogNotifier{}}
	var producer *notify.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = notify.NewProducer([]string{configuration.KAFKA_ADDRESS})
		notifiers = append(notifiers, &notify.KafkaNotifier{Producer: producer})
	}

	var searchSvc *search.Service
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
		searchSvc = search.NewService(esClient)
	}

	c := cache.New(notifiers)
	c.RegisterFetcher(models.CollectionCustomers, func(ctx context.Context) (any, error) {
		return st.ListCustomers(ctx, store.ListOptions{OrderBy: "name"})
	})
	c.RegisterFetcher(models.CollectionProducts, func(ctx context.Context) (any, error) {
		return st.ListProducts(ctx, store.ListOptions{OrderBy: "name"})
	})
	c.RegisterFetcher(models.CollectionOrders, func(ctx context.Context) (any, error) {
		return st.ListOrders(ctx, store.ListOptions{OrderBy: "created_at", Desc: true})
	})
	c.RegisterFetcher(models.CollectionUsers, func(ctx context.Context) (any, error) {
		return st.ListUsers(ctx, store.ListOptions{OrderBy: "name"})
	})

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := &httpserver.Deps{
		Auth:      authSvc,
		AuthH:     &handlers.AuthHandler{Auth: authSvc},
		Customers: &handlers.CustomerHandler{Store: st, Cache: c},
		Products:  &handlers.ProductHandler{Store: st, Cache: c, Images: imgs, Search: searchSvc},
		Orders:    &handlers.OrderHandler{Store: st, Cache: c, Resolver: res, Images: imgs},
		Users:     &handlers.UserHandler{Store: st, Cache: c},
		Dashboard: &handlers.DashboardHandler{Cache: c},
		Search:    &handlers.SearchHandler{Search: searchSvc},
		SMS:       &handlers.SMSHandler{Client: smsClient},
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
