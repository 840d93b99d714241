package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/YashRajNegi/Uttranjali/internal/auth"
	"github.com/YashRajNegi/Uttranjali/internal/cache"
	h "github.com/YashRajNegi/Uttranjali/internal/http"
	"github.com/YashRajNegi/Uttranjali/internal/messaging"
	"github.com/YashRajNegi/Uttranjali/internal/payment"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
	"github.com/YashRajNegi/Uttranjali/internal/service"
)

type Config struct {
	HTTPPort         string
	MongoURI         string
	MongoDatabase    string
	RedisAddr        string
	KafkaBrokers     []string
	KafkaTopic       string
	GatewayURL       string
	GatewayKeyID     string
	GatewayKeySecret string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "uttranjali"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "order-events"),
		GatewayURL:       getEnv("PAYMENT_GATEWAY_URL", "https://api.razorpay.com"),
		GatewayKeyID:     getEnv("PAYMENT_GATEWAY_KEY_ID", ""),
		GatewayKeySecret: getEnv("PAYMENT_GATEWAY_KEY_SECRET", ""),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func loadShippingTiers() service.ShippingTiers {
	tiers := service.DefaultShippingTiers()
	tiers.FreeOver = getEnvFloat("SHIPPING_FREE_OVER", tiers.FreeOver)
	tiers.LowUnder = getEnvFloat("SHIPPING_LOW_UNDER", tiers.LowUnder)
	tiers.HighFee = getEnvFloat("SHIPPING_HIGH_FEE", tiers.HighFee)
	tiers.MidFee = getEnvFloat("SHIPPING_MID_FEE", tiers.MidFee)
	return tiers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func main() {
	cfg := loadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	orderRepo := repository.NewMongoOrderRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	addressRepo := repository.NewMongoAddressRepository(db)
	tokenRepo := repository.NewMongoTokenRepository(db)

	cartCache := cache.NewRedisCache(redisClient)

	orderService := service.NewOrderService(orderRepo, producer, logger)
	cartService := service.NewCartService(cartRepo, productRepo, cartCache, logger)
	checkoutService := service.NewCheckoutService(cartService, orderService, addressRepo, loadShippingTiers(), logger)

	gateway := payment.NewClient(cfg.GatewayURL, cfg.GatewayKeyID, cfg.GatewayKeySecret, logger)
	provider := auth.NewTokenProvider(tokenRepo)

	router := h.NewRouter(h.RouterDeps{
		Orders:    h.NewOrdersHandler(orderService, checkoutService),
		Cart:      h.NewCartHandler(cartService),
		Addresses: h.NewAddressHandler(addressRepo),
		Payments:  h.NewPaymentHandler(gateway),
		Products:  h.NewProductHandler(productRepo),
		Auth:      provider,
		Logger:    logger,
		Timeout:   cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront API starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
