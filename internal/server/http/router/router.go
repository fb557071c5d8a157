package router

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/server/http/handlers"
	"github.com/polkiloo/digistore/internal/server/http/middleware"
)

const formOverhead = 1 << 20

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = cfg.SlipMaxBytes + formOverhead

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Maintenance(cfg.Flags))
	engine.Use(middleware.DecompressRequest(cfg.SlipMaxBytes + formOverhead))
	engine.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".png", ".jpg", ".jpeg", ".webp", ".pdf"}),
	))

	authHandler := handlers.NewAuthHandler(facade, facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	authRequired := middleware.AuthRequired(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("", authRequired)
	userAuth.GET("/profile", authHandler.Profile)
	userAuth.GET("/licenses", accountHandler.Licenses)
	userAuth.GET("/notifications", accountHandler.Notifications)
	userAuth.POST("/notifications/read-all", accountHandler.MarkAllRead)
	userAuth.POST("/notifications/:id/read", accountHandler.MarkRead)

	products := api.Group("/products")
	products.GET("", catalogHandler.List)
	products.GET("/:id", catalogHandler.Get)
	products.GET("/:id/download", middleware.OptionalAuth(facade), catalogHandler.Download)

	api.POST("/checkout", authRequired, checkoutHandler.Create)
	api.GET("/checkout/confirm", checkoutHandler.Confirm)

	orders := api.Group("/orders", authRequired)
	orders.POST("/slip", checkoutHandler.SubmitSlip)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	admin := api.Group("/admin", authRequired, middleware.RequireAdmin())
	admin.GET("/orders", orderHandler.AdminList)
	admin.POST("/orders/:id/approve", orderHandler.Approve)
	admin.POST("/orders/:id/reject", orderHandler.Reject)
	admin.POST("/products", catalogHandler.Create)

	if strings.HasPrefix(cfg.SlipBaseURL, "/") && cfg.SlipDir != "" {
		slips := engine.Group(cfg.SlipBaseURL, authRequired, middleware.RequireAdmin())
		slips.Static("/", cfg.SlipDir)
	}

	return engine
}
