package handlers

import (
	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Liveness and prometheus endpoints
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Zone snapshot stream (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerZoneRoutes(api)
		h.registerTelemetryRoutes(api)
		h.registerAlertRoutes(api)
		h.registerInventoryRoutes(api)
	}
}

func (h *Handler) registerZoneRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.GET("/", h.listZones)
		zones.GET("/:id/state", h.getZoneState)
	}
}

func (h *Handler) registerTelemetryRoutes(api *gin.RouterGroup) {
	api.POST("/telemetry", h.postReading)
	api.POST("/classifications", h.postClassification)
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("/", h.listAlerts)
		alerts.POST("/:id/ack", h.ackAlert)
	}
	api.GET("/logs", h.getLogs)
}

func (h *Handler) registerInventoryRoutes(api *gin.RouterGroup) {
	inventory := api.Group("/inventory")
	{
		inventory.GET("/:id/forecast", h.getForecast)
		inventory.POST("/:id/replenish", h.postReplenishment)
	}
}
