package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/retail-management-platform/internal/api/handlers"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/cache"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/config"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/events"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/health"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/metrics"
	repository "github.com/aaravmahajanofficial/retail-management-platform/internal/repositories"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/repositories/redis"
	service "github.com/aaravmahajanofficial/retail-management-platform/internal/services"
	"github.com/aaravmahajanofficial/retail-management-platform/internal/telemetry"
	"github.com/aaravmahajanofficial/retail-management-platform/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	if cfg.Telemetry.Enabled {
		shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry)
		if err != nil {
			slog.Error("❌ Error initializing tracing", "error", err.Error())
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := shutdownTracing(ctx); err != nil {
				slog.Warn("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
			}
		}()
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisRepo, err := redis.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer redisRepo.Close()

	productCache := cache.NewRedisCache(redisRepo.Client(), &cfg.Cache)

	// Event publisher, optional
	var publisher service.OrderEventPublisher

	if cfg.AMQP.Enabled {
		amqpPublisher, err := events.NewPublisher(cfg.AMQP.URL)
		if err != nil {
			slog.Error("❌ Error connecting to the message broker", "error", err.Error())
			os.Exit(1)
		}

		defer amqpPublisher.Close()

		publisher = amqpPublisher
	}

	jwtKey := []byte(cfg.Security.JWTKey)

	userService := service.NewUserService(repos.User, redisRepo, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	customerService := service.NewCustomerService(repos.Customer)
	customerHandler := handlers.NewCustomerHandler(customerService)
	supplierService := service.NewSupplierService(repos.Supplier, repos.Product)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	productService := service.NewProductService(repos.Product, productCache)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Customer, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Customer)

	// Receipt emails, optional
	var notifier service.ReceiptNotifier

	var notificationService service.NotificationService

	if cfg.SendGrid.Enabled {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notificationService = service.NewNotificationService(repos.Notification, emailService)
		notifier = notificationService
	}

	checkoutService := service.NewCheckoutService(repos.Checkout, repos.Customer, repos.Cart, repos.Product, productCache, publisher, notifier)
	orderHandler := handlers.NewOrderHandler(orderService, checkoutService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:          repos.DB,
		RedisClient: redisRepo.Client(),
	})
	if err != nil {
		slog.Error("❌ Error creating health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("POST /api/v1/customers", authMiddleware.Authenticate(customerHandler.CreateCustomer()))
	routerMux.HandleFunc("GET /api/v1/customers", authMiddleware.Authenticate(customerHandler.ListCustomers()))
	routerMux.HandleFunc("GET /api/v1/customers/{id}", authMiddleware.Authenticate(customerHandler.GetCustomer()))
	routerMux.HandleFunc("PUT /api/v1/customers/{id}", authMiddleware.Authenticate(customerHandler.UpdateCustomer()))
	routerMux.HandleFunc("DELETE /api/v1/customers/{id}", authMiddleware.Authenticate(customerHandler.DeleteCustomer()))
	routerMux.HandleFunc("POST /api/v1/suppliers", authMiddleware.Authenticate(supplierHandler.CreateSupplier()))
	routerMux.HandleFunc("GET /api/v1/suppliers", authMiddleware.Authenticate(supplierHandler.ListSuppliers()))
	routerMux.HandleFunc("GET /api/v1/suppliers/{id}", authMiddleware.Authenticate(supplierHandler.GetSupplier()))
	routerMux.HandleFunc("PUT /api/v1/suppliers/{id}", authMiddleware.Authenticate(supplierHandler.UpdateSupplier()))
	routerMux.HandleFunc("DELETE /api/v1/suppliers/{id}", authMiddleware.Authenticate(supplierHandler.DeleteSupplier()))
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.GetProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /api/v1/customers/{id}/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/customers/{id}/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/customers/{id}/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/customers/{id}/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/customers/{id}/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/customers/{id}/checkout", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/customers/{id}/orders", authMiddleware.Authenticate(orderHandler.ListCustomerOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))

	if notificationService != nil {
		notificationHandler := handlers.NewNotificationHandler(notificationService)
		routerMux.HandleFunc("POST /api/v1/notifications/email", authMiddleware.Authenticate(notificationHandler.SendEmail()))
		routerMux.HandleFunc("GET /api/v1/notifications", authMiddleware.Authenticate(notificationHandler.ListNotifications()))
	}

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}
