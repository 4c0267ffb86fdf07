package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/controllers"
	"github.com/Govind-619/ZapShift/metrics"
	"github.com/Govind-619/ZapShift/utils"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(h *controllers.Handler) *gin.Engine {
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(metrics.Middleware())

	router.GET("/", h.Root)
	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", metrics.Handler())

	initParcelRoutes(router, h)
	initPaymentRoutes(router, h)

	return router
}
