package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DisguisedKairos/supermarket-backend/api/controllers"
	"github.com/DisguisedKairos/supermarket-backend/api/middleware"
	"github.com/DisguisedKairos/supermarket-backend/internal/auth"
	"github.com/DisguisedKairos/supermarket-backend/internal/cart"
	"github.com/DisguisedKairos/supermarket-backend/internal/invoices"
	"github.com/DisguisedKairos/supermarket-backend/internal/products"
	"github.com/DisguisedKairos/supermarket-backend/internal/users"
	"github.com/DisguisedKairos/supermarket-backend/internal/wishlist"
	"github.com/DisguisedKairos/supermarket-backend/pkg/auth/session"
	"github.com/DisguisedKairos/supermarket-backend/pkg/config"
	"github.com/DisguisedKairos/supermarket-backend/pkg/enums"
	"github.com/DisguisedKairos/supermarket-backend/pkg/logger"
	"github.com/DisguisedKairos/supermarket-backend/pkg/redis"
)

// Pinger is the readiness surface of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles every dependency the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        Pinger
	RedisPinger     Pinger
	RedisClient     *redis.Client
	SessionChecker  session.Checker
	AuthService     auth.Service
	ProductService  products.Service
	CartService     cart.Service
	InvoiceService  invoices.Service
	WishlistService wishlist.Service
	UserService     users.Service
}

// NewRouter assembles the storefront HTTP surface.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.RedisPinger))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, params.RedisClient, logg)).
			Post("/register", controllers.AuthRegister(params.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, params.RedisClient, logg)).
			Post("/login", controllers.AuthLogin(params.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(params.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, params.SessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(params.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(params.AuthService, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, params.RedisClient, logg)).
			Post("/login", controllers.AuthLogin(params.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(params.ProductService, logg))
		r.Get("/categories", controllers.ProductCategories(params.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(params.ProductService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, params.SessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(params.CartService, logg))
			r.Get("/count", controllers.CartCount(params.CartService, logg))
			r.Post("/items", controllers.CartAddItem(params.CartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(params.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(params.CartService, logg))
			r.Delete("/", controllers.CartClear(params.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(params.InvoiceService, logg))

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(params.InvoiceService, logg))
			r.Get("/{invoiceId}", controllers.InvoiceDetail(params.InvoiceService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(params.WishlistService, logg))
			r.Get("/ids", controllers.WishlistIDs(params.WishlistService, logg))
			r.Post("/items", controllers.WishlistAdd(params.WishlistService, logg))
			r.Delete("/items/{productId}", controllers.WishlistRemove(params.WishlistService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, params.SessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(params.UserService, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(params.UserService, logg))
			r.Put("/{userId}/role", controllers.AdminUserUpdateRole(params.UserService, logg))
			r.Post("/{userId}/reset-password", controllers.AdminUserResetPassword(params.UserService, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(params.UserService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(params.ProductService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(params.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(params.ProductService, logg))
		})
	})

	return r
}
