package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-backend/internal/auth"
	"rental-backend/internal/billing"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/db"
	"rental-backend/internal/handlers"
	"rental-backend/internal/health"
	h "rental-backend/internal/http"
	"rental-backend/internal/memstore"
	"rental-backend/internal/middleware"
	"rental-backend/internal/notify"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/internal/store"
	"rental-backend/migrations"

	"github.com/shopspring/decimal"
)

// openStore returns the backing store and a function that releases it
func openStore(ctx context.Context, cfg *config.Config, kind string) (store.Store, func(), error) {
	switch kind {
	case "memory":
		log.Println("[Store] Using in-memory store, data is lost on restart")
		return memstore.New(), func() {}, nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
		if err := migrator.RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return repositories.NewStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q (want postgres or memory)", kind)
}

func billingOptions(cfg *config.Config) services.BillingOptions {
	return services.BillingOptions{
		GraceDays: cfg.Billing.GraceDays,
		Charges: billing.Charges{
			Service:  billing.Money(cfg.Billing.ServiceCharge),
			Security: billing.Money(cfg.Billing.SecurityCharge),
		},
		SweepOverdueOnVerify: cfg.Billing.SweepOverdueOnVerify,
		AutoMarkOverdue:      cfg.Billing.OverdueSweepInterval > 0,
	}
}

func main() {
	port := flag.Int("port", 0, "override server.port")
	storeKind := flag.String("store", "postgres", "backing store: postgres or memory")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, *storeKind)
	if err != nil {
		log.Fatalf("[Store] %v", err)
	}
	defer closeStore()

	// Redis is optional: dues caching and cross-replica notifications degrade to local
	redisCache, err := cache.New(cfg)
	if err != nil {
		log.Printf("[Redis] Unavailable, continuing without cache: %v", err)
	} else {
		log.Println("[Redis] Connected")
	}
	defer redisCache.Close()

	hub := notify.NewHub(redisCache, cfg.Server.CorsAllowedOrigins)

	jwtManager := auth.NewJWTManager(cfg)
	opts := billingOptions(cfg)

	userService := services.NewUserService(st, jwtManager)
	billService := services.NewBillService(st, hub, redisCache, opts)
	paymentService := services.NewPaymentService(st, hub, redisCache, opts)
	maintenanceService := services.NewMaintenanceService(st, hub)
	payrollService := services.NewPayrollService(st, hub)
	waterTankerService := services.NewWaterTankerService(st, payrollService)
	notificationService := services.NewNotificationService(st)

	router := h.NewRouter(
		handlers.NewAuthHandler(userService, cfg.Server.CookieSecure),
		handlers.NewUserHandler(userService),
		handlers.NewBillHandler(billService),
		handlers.NewPaymentHandler(paymentService),
		handlers.NewMaintenanceHandler(maintenanceService),
		handlers.NewPayrollHandler(payrollService),
		handlers.NewSecurityHandler(waterTankerService),
		handlers.NewNotificationHandler(notificationService, hub),
		handlers.NewHealthHandler(health.NewHealthChecker(st, redisCache)),
		middleware.NewAuthMiddleware(jwtManager, st.Users()),
	)

	apiLogging := middleware.NewAPILoggingMiddleware()
	handler := middleware.PanicRecovery(apiLogging.Handler(middleware.NewCORS(cfg)(router)))

	go billService.RunOverdueSweeper(ctx, cfg.Billing.OverdueSweepInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s (store: %s)", srv.Addr, *storeKind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
