package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thanhngvn/foodcourt-backend/api/controllers"
	"github.com/thanhngvn/foodcourt-backend/api/middleware"
	addresssvc "github.com/thanhngvn/foodcourt-backend/internal/addresses"
	authsvc "github.com/thanhngvn/foodcourt-backend/internal/auth"
	cartsvc "github.com/thanhngvn/foodcourt-backend/internal/cart"
	categorysvc "github.com/thanhngvn/foodcourt-backend/internal/categories"
	checkoutsvc "github.com/thanhngvn/foodcourt-backend/internal/checkout"
	couponsvc "github.com/thanhngvn/foodcourt-backend/internal/coupons"
	ordersvc "github.com/thanhngvn/foodcourt-backend/internal/orders"
	productsvc "github.com/thanhngvn/foodcourt-backend/internal/products"
	reviewsvc "github.com/thanhngvn/foodcourt-backend/internal/reviews"
	tablesvc "github.com/thanhngvn/foodcourt-backend/internal/tables"
	usersvc "github.com/thanhngvn/foodcourt-backend/internal/users"
	"github.com/thanhngvn/foodcourt-backend/pkg/auth/session"
	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/db"
	"github.com/thanhngvn/foodcourt-backend/pkg/enums"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
	"github.com/thanhngvn/foodcourt-backend/pkg/metrics"
	"github.com/thanhngvn/foodcourt-backend/pkg/redis"
)

// Services bundles every domain service the router exposes.
type Services struct {
	Auth       authsvc.Service
	Users      usersvc.Service
	Products   productsvc.Service
	Categories categorysvc.Service
	Cart       cartsvc.Service
	Checkout   checkoutsvc.Service
	Orders     ordersvc.Service
	Addresses  addresssvc.Service
	Coupons    couponsvc.Service
	Tables     tablesvc.Service
	Reviews    reviewsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// Public storefront catalog.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Products, logg, true))
		r.Get("/slug/{slug}", controllers.ProductDetailBySlug(svcs.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))
		r.Post("/{productId}/resolve", controllers.ProductResolve(svcs.Products, logg))
		r.Get("/{productId}/reviews", controllers.ReviewListByProduct(svcs.Reviews, logg))
	})
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(svcs.Categories, logg))
		r.Get("/{categoryId}", controllers.CategoryDetail(svcs.Categories, logg))
	})

	// Authenticated storefront surface.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(svcs.Users, logg))
			r.Put("/", controllers.UserUpdateProfile(svcs.Users, logg))
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateQuantity(svcs.Cart, logg))
			r.Delete("/items", controllers.CartDeleteLines(svcs.Cart, logg))
			r.Patch("/items/{lineId}/checked", controllers.CartSetChecked(svcs.Cart, logg))
			r.Post("/toggle-checked", controllers.CartToggleAll(svcs.Cart, logg))
		})

		r.Route("/v1/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(svcs.Addresses, logg))
			r.Post("/", controllers.AddressCreate(svcs.Addresses, logg))
			r.Put("/{addressId}", controllers.AddressUpdate(svcs.Addresses, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(svcs.Addresses, logg))
			r.Post("/{addressId}/default", controllers.AddressSetDefault(svcs.Addresses, logg))
		})

		r.Get("/v1/checkout/preview", controllers.CheckoutPreview(svcs.Checkout, logg))
		r.Post("/v1/checkout", controllers.CheckoutSubmit(svcs.Checkout, logg))
		r.Post("/v1/coupons/apply", controllers.CouponApply(svcs.Coupons, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderListMine(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
		})

		r.Post("/v1/reviews", controllers.ReviewSubmit(svcs.Reviews, logg))
		r.Delete("/v1/reviews/{reviewId}", controllers.ReviewDelete(svcs.Reviews, logg))
	})

	// Back-office surface: staff run the floor, admins also manage accounts.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireBackOffice(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg, false))
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
		})

		r.Route("/v1/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(svcs.Categories, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Categories, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Categories, logg))
		})

		r.Route("/v1/coupons", func(r chi.Router) {
			r.Get("/", controllers.CouponList(svcs.Coupons, logg))
			r.Post("/", controllers.CouponCreate(svcs.Coupons, logg))
			r.Get("/{couponId}", controllers.CouponDetail(svcs.Coupons, logg))
			r.Put("/{couponId}", controllers.CouponUpdate(svcs.Coupons, logg))
			r.Delete("/{couponId}", controllers.CouponDelete(svcs.Coupons, logg))
		})

		r.Route("/v1/tables", func(r chi.Router) {
			r.Get("/", controllers.TableList(svcs.Tables, logg))
			r.Post("/", controllers.TableCreate(svcs.Tables, logg))
			r.Get("/{tableId}", controllers.TableDetail(svcs.Tables, logg))
			r.Put("/{tableId}", controllers.TableUpdate(svcs.Tables, logg))
			r.Patch("/{tableId}/status", controllers.TableSetStatus(svcs.Tables, logg))
			r.Delete("/{tableId}", controllers.TableDelete(svcs.Tables, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
		})

		r.Route("/v1/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.MemberRoleAdmin, logg))
			r.Get("/", controllers.AdminUserList(svcs.Users, logg))
			r.Patch("/{userId}/role", controllers.AdminUserChangeRole(svcs.Users, logg))
			r.Patch("/{userId}/active", controllers.AdminUserSetActive(svcs.Users, logg))
		})
	})

	return r
}
