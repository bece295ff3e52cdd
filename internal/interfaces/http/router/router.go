package router

import (
	"net/http"

	"github.com/atlaserp/backend/internal/infrastructure/auth"
	"github.com/atlaserp/backend/internal/infrastructure/logger"
	"github.com/atlaserp/backend/internal/interfaces/http/handler"
	"github.com/atlaserp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds router assembly settings
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	CORS           middleware.CORSConfig
	TrustedProxies []string
}

// Handlers groups the API handlers wired into the route table
type Handlers struct {
	System      *handler.SystemHandler
	Stock       *handler.StockHandler
	Reservation *handler.ReservationHandler
	Quote       *handler.QuoteHandler
	Order       *handler.OrderHandler
}

// New assembles the gin engine with middleware and the API route table
func New(cfg Config, h Handlers) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
	)

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Logger:     cfg.Logger,
	}))

	registerStockRoutes(api, h.Stock)
	registerReservationRoutes(api, h.Reservation)
	registerQuoteRoutes(api, h.Quote)
	registerOrderRoutes(api, h.Order)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_NOT_FOUND",
				"message": "Route not found",
			},
		})
	})

	return engine, nil
}

func registerStockRoutes(api *gin.RouterGroup, h *handler.StockHandler) {
	stock := api.Group("/stock")
	{
		stock.GET("", h.List)
		stock.GET("/movements", h.ListMovements)
		stock.GET("/batches", h.ListBatches)
		stock.GET("/below-minimum", h.ListBelowMinimum)
		stock.GET("/:id", h.Get)
		stock.POST("/in", h.StockIn)
		stock.POST("/out", h.StockOut)
		stock.POST("/adjust", h.Adjust)
		stock.POST("/transfer", h.Transfer)
	}
}

func registerReservationRoutes(api *gin.RouterGroup, h *handler.ReservationHandler) {
	reservations := api.Group("/reservations")
	{
		reservations.GET("", h.List)
		reservations.GET("/:id", h.Get)
		reservations.POST("", h.Create)
		reservations.POST("/:id/cancel", h.Cancel)
	}
}

func registerQuoteRoutes(api *gin.RouterGroup, h *handler.QuoteHandler) {
	quotes := api.Group("/quotes")
	{
		quotes.GET("", h.List)
		quotes.GET("/:id", h.Get)
		quotes.POST("", h.Create)
		quotes.PUT("/:id", h.Update)
		quotes.POST("/:id/status", h.ChangeStatus)
		quotes.POST("/:id/convert", h.Convert)
	}
}

func registerOrderRoutes(api *gin.RouterGroup, h *handler.OrderHandler) {
	orders := api.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("", h.Create)
		orders.POST("/:id/status", h.ChangeStatus)
	}
}
