package httpserver

import (
	"github.com/shamcart/storefront/internal/core/domain/user"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refreshToken)
	auth.GET("/verify-email", s.verifyEmail)
	auth.POST("/verify-email", s.verifyEmail)
	auth.POST("/resend-verification", s.resendVerification)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/reset-password", s.resetPassword)

	// Public catalog and search.
	products := api.Group("/products")
	products.GET("", s.listProducts)
	products.GET("/filter", s.filterProducts)
	products.GET("/:id", s.getProduct)
	products.GET("/:id/reviews", s.listProductReviews)

	categories := api.Group("/categories")
	categories.GET("", s.listCategories)
	categories.GET("/:id", s.getCategory)
	categories.GET("/:id/products", s.listCategoryProducts)

	search := api.Group("/search")
	search.GET("", s.search)
	search.GET("/autocomplete", s.autocomplete)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	protected.POST("/auth/logout", s.logout)

	me := protected.Group("/users/me")
	me.GET("", s.getProfile)
	me.PUT("", s.updateProfile)
	me.POST("/password", s.changePassword)
	me.GET("/products", s.listOwnProducts)
	me.GET("/orders", s.listOwnOrders)

	vendor := s.middleware.Role.RequireRole(user.RoleAdmin, user.RoleVendor)
	admin := s.middleware.Role.RequireRole(user.RoleAdmin)

	protected.POST("/products", s.createProduct, vendor)
	protected.PUT("/products/:id", s.updateProduct, vendor)
	protected.DELETE("/products/:id", s.deleteProduct, vendor)
	protected.POST("/products/:id/reviews", s.createReview)
	protected.DELETE("/reviews/:id", s.deleteReview)

	protected.POST("/categories", s.createCategory, admin)
	protected.PUT("/categories/:id", s.updateCategory, admin)
	protected.DELETE("/categories/:id", s.deleteCategory, admin)

	cart := protected.Group("/cart")
	cart.GET("", s.getCart)
	cart.POST("/items", s.addCartItem)
	cart.PUT("/items/:id", s.updateCartItem)
	cart.DELETE("/items/:id", s.removeCartItem)
	cart.DELETE("", s.clearCart)

	orders := protected.Group("/orders")
	orders.POST("", s.createOrder)
	orders.GET("/number/:orderNumber", s.getOrderByNumber)
	orders.GET("/:id", s.getOrder)
	orders.PUT("/:id/status", s.updateOrderStatus, admin)
	orders.PUT("/:id/payment", s.updateOrderPaymentStatus, admin)

	wishlist := protected.Group("/wishlist")
	wishlist.GET("", s.listWishlist)
	wishlist.POST("/:productId", s.addToWishlist)
	wishlist.PUT("/:productId/toggle", s.toggleWishlist)
	wishlist.DELETE("/:productId", s.removeFromWishlist)

	// Operational cache tooling.
	cacheAdmin := protected.Group("/admin/cache", admin)
	cacheAdmin.GET("/stats", s.cacheStats)
	cacheAdmin.DELETE("/search", s.clearSearchCache)
	cacheAdmin.DELETE("/pattern", s.invalidateCachePattern)
	cacheAdmin.DELETE("", s.clearCache)
	protected.GET("/admin/search/analytics", s.searchAnalytics, admin)
}
