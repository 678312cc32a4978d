package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"quilltips-backend/internal/shared/middleware"
	"quilltips-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	visitorConfig := middleware.DefaultVisitorMiddlewareConfig()
	if os.Getenv("APP_ENV") == "development" {
		visitorConfig.CookieSecure = false
	}
	visitor := middleware.VisitorMiddleware(visitorConfig)

	authGuard := middleware.AuthGuard(c.JWTManager, c.Sessions)
	authorGuard := middleware.AuthorGuard(c.JWTManager, c.Sessions, c.AuthorService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c, authGuard)
		setupPublicRoutes(v1, c, visitor)
		setupDashboardRoutes(v1, c, authorGuard)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, authGuard gin.HandlerFunc) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.AccountHandler.Register)
		auth.POST("/login", c.AccountHandler.Login)
		auth.POST("/refresh", c.AccountHandler.Refresh)
		auth.POST("/logout", authGuard, c.AccountHandler.Logout)
		// SSE stream pushing sign-out events to other open tabs.
		auth.GET("/session/events", authGuard, c.AccountHandler.SessionEvents)
	}
}

// setupPublicRoutes covers everything a reader hits without an account:
// author and book pages, QR resolution, view beacons, tip checkout.
func setupPublicRoutes(v1 *gin.RouterGroup, c *container.Container, visitor gin.HandlerFunc) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.Search)
		authors.GET("/:authorId", c.AuthorHandler.GetAuthor)
		authors.GET("/:authorId/books", c.BookHandler.ListByAuthor)
		authors.GET("/:authorId/books/:slug", c.BookHandler.GetAuthorBook)
		authors.GET("/:authorId/tips", c.TipHandler.PublicFeed)
	}

	v1.GET("/books/:id", c.BookHandler.GetBook)
	v1.GET("/qr/:id", c.QRCodeHandler.Resolve)

	v1.POST("/views", visitor, c.AnalyticsHandler.RecordView)
	v1.POST("/checkout", visitor, c.CheckoutHandler.Begin)
	v1.POST("/webhooks/stripe", c.CheckoutHandler.Webhook)
}

// setupDashboardRoutes is the author-only surface behind the fail-closed
// guard.
func setupDashboardRoutes(v1 *gin.RouterGroup, c *container.Container, authorGuard gin.HandlerFunc) {
	me := v1.Group("/me", authorGuard)
	{
		me.GET("/profile", c.AuthorHandler.GetMyProfile)
		me.POST("/avatar", c.AvatarHandler.Upload)

		draft := me.Group("/profile/draft")
		{
			draft.POST("", c.DraftHandler.Open)
			draft.GET("", c.DraftHandler.Get)
			draft.PATCH("", c.DraftHandler.Apply)
			draft.POST("/save", c.DraftHandler.Save)
			draft.POST("/discard", c.DraftHandler.Discard)
			draft.DELETE("", c.DraftHandler.Close)
		}

		me.GET("/books", c.BookHandler.ListMine)
		me.POST("/books", c.BookHandler.Create)
		me.PUT("/books/:id", c.BookHandler.Update)
		me.DELETE("/books/:id", c.BookHandler.Delete)

		me.GET("/qrcodes", c.QRCodeHandler.ListMine)
		me.POST("/qrcodes", c.QRCodeHandler.Create)
		me.DELETE("/qrcodes/:id", c.QRCodeHandler.Delete)

		me.GET("/tips", c.TipHandler.History)
		me.GET("/earnings", c.TipHandler.Earnings)
		me.GET("/views", c.AnalyticsHandler.Stats)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
