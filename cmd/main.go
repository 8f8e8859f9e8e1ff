package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/database"
	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/messaging"
	"restaurant-storefront/internal/services/auth"
	"restaurant-storefront/internal/services/cart"
	"restaurant-storefront/internal/services/catalog"
	"restaurant-storefront/internal/services/notification"
	"restaurant-storefront/internal/services/order"
	"restaurant-storefront/internal/web"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (api, notification-subscriber)")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "api":
		httpPort := cfg.HTTP.Port
		if *port != 0 {
			httpPort = *port
		}
		if httpPort == 0 {
			httpPort = 3000
		}
		if err := runAPI(ctx, cfg, log, httpPort); err != nil {
			log.Error("service_failed", "API service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runAPI wires the storefront HTTP service: catalog browsing, carts, auth
// and the order ledger behind one router.
func runAPI(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	authService := auth.NewService(auth.NewPostgresStore(db), cfg, log)
	authMW := auth.NewMiddleware(authService)
	authHandler := auth.NewHandler(authService, log)

	catalogService := catalog.NewService(db, log)
	catalogHandler := catalog.NewHandler(catalogService, log)

	cartService := cart.NewService(cart.NewPostgresStore(db), catalogService, log)
	cartHandler := cart.NewHandler(cartService, log)

	orderService := order.NewService(order.NewPostgresRepository(db), cart.NewPostgresStore(db), publisher, log)
	orderHandler := order.NewHandler(orderService, log)

	router := mux.NewRouter()
	router.Use(web.RequestLogging(log))
	router.Use(authMW.ResolveSession)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			web.WriteError(w, http.StatusServiceUnavailable, "database unavailable", web.RequestID(r))
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	authHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router, authMW.RequireAdmin)
	cartHandler.RegisterRoutes(router, authMW.EnsureSession)
	orderHandler.RegisterRoutes(router, authMW.EnsureSession, authMW.RequireAdmin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Storefront API started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber consumes the status update fanout and prints
// notifications to the staff console.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	subscriber := notification.NewSubscriber(consumer, log)

	return subscriber.Start(ctx)
}
