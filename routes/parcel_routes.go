package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/controllers"
)

// initParcelRoutes registers parcel booking and lookup routes
func initParcelRoutes(router *gin.Engine, h *controllers.Handler) {
	parcels := router.Group("/parcels")
	{
		parcels.POST("", h.CreateParcel)
		parcels.GET("", h.ListParcels)
		parcels.GET("/:id", h.GetParcel)
		parcels.DELETE("/:id", h.DeleteParcel)
	}

	// Tracking lives outside /parcels so it cannot clash with /:id
	router.GET("/tracking/:trackingId", h.TrackParcel)
}
