package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/controllers"
)

// initPaymentRoutes registers checkout, confirmation and payment history routes
func initPaymentRoutes(router *gin.Engine, h *controllers.Handler) {
	router.POST("/create-checkout-session", h.CreateCheckoutSession)
	router.PATCH("/on-payment-success", h.ConfirmPayment)

	payments := router.Group("/payments")
	{
		payments.GET("", h.ListPayments)
		payments.GET("/export", h.ExportPayments)
		payments.GET("/:id/receipt", h.DownloadReceipt)
	}
}
