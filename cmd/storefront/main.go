package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/cart"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/checkout"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/client"
	sf "github.com/wahidpatel05/mz-aromas-storefront/internal/http"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/persist"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/wishlist"
)

type Config struct {
	HTTPPort        string
	OrderAPIURL     string
	PaymentAPIURL   string
	CatalogAPIURL   string
	AccountAPIURL   string
	PaymentProvider string

	PersistBackend string // "redis" or "mongo"
	RedisAddr      string
	MongoURI       string
	MongoDatabase  string

	FreeShippingThreshold int64
	FlatShippingFee       int64
	TaxRate               string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		OrderAPIURL:     getEnv("ORDER_API_URL", "http://localhost:9001"),
		PaymentAPIURL:   getEnv("PAYMENT_API_URL", "http://localhost:9002"),
		CatalogAPIURL:   getEnv("CATALOG_API_URL", "http://localhost:9003"),
		AccountAPIURL:   getEnv("ACCOUNT_API_URL", "http://localhost:9004"),
		PaymentProvider: getEnv("PAYMENT_PROVIDER", "razorpay"),

		PersistBackend: getEnv("PERSIST_BACKEND", "redis"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "storefront"),

		FreeShippingThreshold: getEnvInt64("FREE_SHIPPING_THRESHOLD", 999),
		FlatShippingFee:       getEnvInt64("FLAT_SHIPPING_FEE", 99),
		TaxRate:               getEnv("TAX_RATE", "0.18"),

		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	log := logrus.WithField("service", "storefront")

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.WithError(err).Fatal("invalid TAX_RATE")
	}
	policy := pricing.Policy{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
		TaxRate:               taxRate,
	}

	persistence, cleanup, err := buildPersistence(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to set up cart persistence")
	}
	defer cleanup()

	orderAPI := client.NewOrderAPI(cfg.OrderAPIURL, log)
	paymentAPI := client.NewPaymentAPI(cfg.PaymentAPIURL, log)
	catalogAPI := client.NewCatalogAPI(cfg.CatalogAPIURL, log)
	accountAPI := client.NewAccountAPI(cfg.AccountAPIURL, log)

	manager := cart.NewManager(persistence)
	checkoutSvc := checkout.NewService(orderAPI, paymentAPI, policy, cfg.PaymentProvider, log)
	toggler := wishlist.NewToggler(accountAPI.SetWishlisted)

	router := sf.NewRouter(sf.Handlers{
		Cart:     sf.NewCartHandler(manager, catalogAPI, policy),
		Checkout: sf.NewCheckoutHandler(manager, checkoutSvc),
		Catalog:  sf.NewCatalogHandler(catalogAPI),
		Orders:   sf.NewOrdersHandler(orderAPI),
		Wishlist: sf.NewWishlistHandler(toggler),
	}, cfg.RequestTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront session API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func buildPersistence(cfg *Config, log *logrus.Entry) (cart.Persistence, func(), error) {
	switch cfg.PersistBackend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		db, err := persist.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		store := persist.NewMongoStore(db, log)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {
			_ = db.Client().Disconnect(context.Background())
		}, nil
	default:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return persist.NewRedisStore(rdb, log), func() { _ = rdb.Close() }, nil
	}
}
