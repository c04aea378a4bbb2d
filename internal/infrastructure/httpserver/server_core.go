package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/internal/core/ports"
	customMiddleware "github.com/shamcart/storefront/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	Environment    string
}

type ServerDeps struct {
	AuthService        ports.AuthService
	UserService        ports.UserService
	ProductService     ports.ProductService
	CategoryService    ports.CategoryService
	CartService        ports.CartService
	OrderService       ports.OrderService
	WishlistService    ports.WishlistService
	ReviewService      ports.ReviewService
	SearchService      ports.SearchService
	RateLimiterService ports.RateLimiterService
	CacheStore         ports.CacheStore
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	authSvc        ports.AuthService
	userService    ports.UserService
	productSvc     ports.ProductService
	categorySvc    ports.CategoryService
	cartSvc        ports.CartService
	orderSvc       ports.OrderService
	wishlistSvc    ports.WishlistService
	reviewSvc      ports.ReviewService
	searchSvc      ports.SearchService
	cacheStore     ports.CacheStore
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.Validator = NewRequestValidator()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		authSvc:        deps.AuthService,
		userService:    deps.UserService,
		productSvc:     deps.ProductService,
		categorySvc:    deps.CategoryService,
		cartSvc:        deps.CartService,
		orderSvc:       deps.OrderService,
		wishlistSvc:    deps.WishlistService,
		reviewSvc:      deps.ReviewService,
		searchSvc:      deps.SearchService,
		cacheStore:     deps.CacheStore,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
