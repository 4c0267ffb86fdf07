package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/gateway"
	"github.com/Govind-619/ZapShift/metrics"
	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

// CreateCheckoutSession opens a hosted checkout for one parcel and returns
// the page the client should be redirected to.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	utils.LogInfo("CreateCheckoutSession called")

	var intent models.PaymentIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		utils.LogDebug("Invalid payment intent: %v", err)
		utils.ValidationError(c, utils.ErrInvalidBody, err.Error())
		return
	}

	parcelID, appErr := parseObjectID(intent.ParcelID, utils.ErrInvalidParcelID)
	if appErr != nil {
		utils.RespondWithError(c, appErr)
		return
	}

	ctx := c.Request.Context()
	parcel, err := h.parcels.FindByID(ctx, parcelID)
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrParcelNotFound))
		return
	}
	if parcel.IsPaid() {
		utils.RespondWithError(c, utils.ConflictError(utils.ErrParcelAlreadyPaid, nil).
			WithData(gin.H{"trackingId": parcel.TrackingID}))
		return
	}

	session, err := h.gateway.CreateCheckoutSession(ctx, h.checkoutRequest(intent))
	metrics.GatewayCheckoutCreate.WithLabelValues(h.gateway.Name(), metrics.Result(err)).Inc()
	if err != nil {
		utils.RespondWithError(c, utils.UpstreamError(utils.ErrGatewayUnavailable, err))
		return
	}

	utils.LogInfo("Checkout session %s created for parcel %s (%s %s)",
		session.ID, intent.ParcelID, intent.Cost.String(), h.currency)
	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}

func (h *Handler) checkoutRequest(intent models.PaymentIntent) gateway.CheckoutRequest {
	return gateway.CheckoutRequest{
		ParcelID:      intent.ParcelID,
		ParcelName:    intent.ParcelName,
		CustomerEmail: utils.NormalizeEmail(intent.SenderEmail),
		Amount:        intent.Cost,
		Currency:      h.currency,
		SuccessURL:    fmt.Sprintf("%s/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}", h.clientSideDomain),
		CancelURL:     fmt.Sprintf("%s/dashboard/payment-cancelled", h.clientSideDomain),
	}
}
