package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/thanhngvn/foodcourt-backend/api/routes"
	"github.com/thanhngvn/foodcourt-backend/internal/addresses"
	"github.com/thanhngvn/foodcourt-backend/internal/auth"
	"github.com/thanhngvn/foodcourt-backend/internal/cart"
	"github.com/thanhngvn/foodcourt-backend/internal/categories"
	"github.com/thanhngvn/foodcourt-backend/internal/checkout"
	"github.com/thanhngvn/foodcourt-backend/internal/coupons"
	"github.com/thanhngvn/foodcourt-backend/internal/events"
	"github.com/thanhngvn/foodcourt-backend/internal/orders"
	"github.com/thanhngvn/foodcourt-backend/internal/products"
	"github.com/thanhngvn/foodcourt-backend/internal/reviews"
	"github.com/thanhngvn/foodcourt-backend/internal/tables"
	"github.com/thanhngvn/foodcourt-backend/internal/users"
	"github.com/thanhngvn/foodcourt-backend/pkg/auth/session"
	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/db"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
	"github.com/thanhngvn/foodcourt-backend/pkg/metrics"
	"github.com/thanhngvn/foodcourt-backend/pkg/migrate"
	"github.com/thanhngvn/foodcourt-backend/pkg/redis"
	"github.com/thanhngvn/foodcourt-backend/pkg/square"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	publisher, err := events.NewPublisher(redisClient, cfg.Events, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create event publisher", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	categoryRepo := categories.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	addressRepo := addresses.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	tableRepo := tables.NewRepository(gormDB)

	authService, err := auth.NewService(userRepo, sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(productRepo, dbClient, categoryRepo, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	categoriesService, err := categories.NewService(categoryRepo, products.Slugify, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, productRepo, cart.NewSelectionStore(redisClient))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	addressesService, err := addresses.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}
	couponsService, err := coupons.NewService(couponRepo, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orderRepo, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	reviewsService, err := reviews.NewService(reviewRepo, productRepo, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}
	tablesService, err := tables.NewService(tableRepo, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create table service", err)
		os.Exit(1)
	}

	checkoutRepos := checkout.Repositories{
		Addresses: addressRepo,
		Coupons:   couponRepo,
		Orders:    orderRepo,
		Products:  productRepo,
		Cart:      cartRepo,
	}
	var checkoutService checkout.Service
	if cfg.Square.AccessToken != "" {
		squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create square client", err)
			os.Exit(1)
		}
		checkoutService, err = checkout.NewService(dbClient, cartService, checkoutRepos, squareClient, publisher, cfg.Pricing)
		if err != nil {
			logg.Error(context.Background(), "failed to create checkout service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square not configured, online payment methods disabled")
		checkoutService, err = checkout.NewService(dbClient, cartService, checkoutRepos, nil, publisher, cfg.Pricing)
		if err != nil {
			logg.Error(context.Background(), "failed to create checkout service", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, registry, routes.Services{
			Auth:       authService,
			Users:      usersService,
			Products:   productsService,
			Categories: categoriesService,
			Cart:       cartService,
			Checkout:   checkoutService,
			Orders:     ordersService,
			Addresses:  addressesService,
			Coupons:    couponsService,
			Tables:     tablesService,
			Reviews:    reviewsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
