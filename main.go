package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laptopshop-svc/config"
	"laptopshop-svc/handlers"
	"laptopshop-svc/kafka"
	"laptopshop-svc/middleware"
	"laptopshop-svc/payment"
	"laptopshop-svc/services"
	"laptopshop-svc/store"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load(logger)

	// Initialize collection store
	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing("laptopshop")
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// Initialize Kafka (optional)
	var publisher services.EventPublisher = services.NoopPublisher{}
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	if cfg.KafkaEnabled {
		producer, err := kafka.InitProducer(cfg.KafkaBroker, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
		kafkaPublisher := kafka.NewPublisher(producer, cfg.KafkaTopic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		consumer, err := kafka.InitConsumer(cfg.KafkaBroker, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka consumer", zap.Error(err))
		}
		defer consumer.Close()

		go func() {
			if err := kafka.StartNotifier(consumerCtx, consumer, cfg.KafkaTopic, logger); err != nil {
				logger.Error("Order notifier error", zap.Error(err))
			}
		}()
	}

	// Services
	catalogSvc := services.NewCatalogService(st, logger)
	cartSvc := services.NewCartService(st, cfg, logger)
	orderSvc := services.NewOrderService(st, publisher, logger)
	authSvc := services.NewAuthService(st, cfg.JWTSecret, logger)
	wishlistSvc := services.NewWishlistService(st, logger)
	analyticsSvc := services.NewAnalyticsService(st, cfg.LowStockThreshold, logger)

	// Seed the default admin on an empty users collection
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.SeedAdmin(seedCtx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("Failed to seed admin account", zap.Error(err))
	}
	cancelSeed()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware("laptopshop"))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	// Handlers
	productHandler := handlers.NewProductHandler(catalogSvc, logger)
	cartHandler := handlers.NewCartHandler(cartSvc, logger)
	orderHandler := handlers.NewOrderHandler(orderSvc, logger)
	authHandler := handlers.NewAuthHandler(authSvc, logger)
	wishlistHandler := handlers.NewWishlistHandler(wishlistSvc, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, logger)
	paymentHandler := handlers.NewPaymentHandler(
		payment.NewEsewaClient(cfg, st, logger),
		payment.NewKhaltiClient(cfg, st, logger),
		logger,
	)

	// Public endpoints
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/products", productHandler.GetProducts)
	router.GET("/products/:id", productHandler.GetProduct)

	// Authenticated customer endpoints
	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/profile", authHandler.GetProfile)
		authed.PUT("/profile", authHandler.UpdateProfile)
		authed.PUT("/profile/password", authHandler.ChangePassword)

		authed.GET("/cart", cartHandler.GetCart)
		authed.GET("/cart/quote", cartHandler.QuoteCart)
		authed.POST("/cart/items", cartHandler.AddToCart)
		authed.PUT("/cart/items/:id", cartHandler.UpdateCartItem)
		authed.DELETE("/cart/items/:id", cartHandler.RemoveFromCart)
		authed.DELETE("/cart", cartHandler.ClearCart)

		authed.GET("/wishlist", wishlistHandler.GetWishlist)
		authed.POST("/wishlist", wishlistHandler.AddToWishlist)
		authed.DELETE("/wishlist/:id", wishlistHandler.RemoveFromWishlist)

		authed.POST("/orders", orderHandler.CreateOrder)
		authed.GET("/orders", orderHandler.GetMyOrders)
		authed.GET("/orders/:id", orderHandler.GetOrder)

		authed.POST("/payments/esewa/initiate", paymentHandler.InitiateEsewa)
		authed.GET("/payments/esewa/verify", paymentHandler.VerifyEsewa)
		authed.POST("/payments/khalti/initiate", paymentHandler.InitiateKhalti)
		authed.GET("/payments/khalti/verify", paymentHandler.VerifyKhalti)
	}

	// Admin endpoints
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireAdmin())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.GET("/orders", orderHandler.GetAllOrders)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

		admin.GET("/analytics/monthly-sales", analyticsHandler.MonthlySales)
		admin.GET("/analytics/category-sales", analyticsHandler.CategorySales)
		admin.GET("/analytics/top-products", analyticsHandler.TopProducts)
		admin.GET("/analytics/customers", analyticsHandler.CustomerBreakdown)
		admin.GET("/analytics/dashboard", analyticsHandler.DashboardStats)
	}

	// Start server
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Laptop shop service started", zap.String("addr", cfg.HTTPAddr))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received. Exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server stopped gracefully")
	}
	cancelConsumer()

	logger.Info("Laptop shop service exited gracefully")
}

func openStore(cfg config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		return store.NewRedisStore(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, logger)
	case "postgres":
		return store.NewPostgresStore(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, logger)
	default:
		logger.Info("Using in-memory collection store")
		return store.NewMemoryStore(), nil
	}
}
