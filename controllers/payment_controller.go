package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Govind-619/ZapShift/cache"
	"github.com/Govind-619/ZapShift/db"
	"github.com/Govind-619/ZapShift/gateway"
	"github.com/Govind-619/ZapShift/metrics"
	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

// ConfirmPayment is hit by the client after the gateway redirects back. It
// verifies the session with the gateway, then records the payment and marks
// the parcel paid exactly once per session.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	utils.LogInfo("ConfirmPayment called for session %q", sessionID)

	confirmation, err := h.confirm(c.Request.Context(), sessionID)
	if err != nil {
		metrics.PaymentConfirm.WithLabelValues(metrics.Result(err)).Inc()
		utils.RespondWithError(c, err)
		return
	}

	if confirmation.AlreadyProcessed {
		metrics.PaymentConfirm.WithLabelValues(metrics.ResultReplayed).Inc()
		utils.LogInfo("Session %s already processed, replaying tracking id %s", sessionID, confirmation.TrackingID)
	} else {
		metrics.PaymentConfirm.WithLabelValues(metrics.ResultOK).Inc()
		utils.LogInfo("Session %s confirmed, tracking id %s", sessionID, confirmation.TrackingID)
	}
	c.JSON(http.StatusOK, confirmation)
}

func (h *Handler) confirm(ctx context.Context, sessionID string) (*models.PaymentConfirmation, error) {
	if sessionID == "" {
		return nil, utils.BadRequestError(utils.ErrMissingSessionID, nil)
	}

	session, err := h.gateway.GetCheckoutSession(ctx, sessionID)
	metrics.GatewayCheckoutGet.WithLabelValues(h.gateway.Name(), metrics.Result(err)).Inc()
	if errors.Is(err, gateway.ErrSessionNotFound) {
		return nil, utils.NotFoundError(utils.ErrSessionNotFound, err)
	}
	if err != nil {
		return nil, utils.UpstreamError(utils.ErrGatewayUnavailable, err)
	}
	if !session.IsPaid() {
		return nil, utils.PaymentRequiredError(utils.ErrPaymentNotCompleted, nil).
			WithData(gin.H{"success": false, "paymentStatus": session.PaymentStatus})
	}

	release, err := h.locker.Acquire(ctx, "confirm:"+sessionID)
	if errors.Is(err, cache.ErrLocked) {
		return nil, utils.ConflictError(utils.ErrSessionInProgress, err)
	}
	if err != nil {
		return nil, utils.ServiceUnavailableError(utils.ErrLockUnavailable, err)
	}
	defer release()

	existing, err := h.payments.FindBySessionID(ctx, sessionID)
	if err == nil {
		return replay(existing), nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, storeError(err, utils.ErrPaymentNotFound)
	}

	parcelID, err := primitive.ObjectIDFromHex(session.Metadata[gateway.MetaParcelID])
	if err != nil {
		return nil, utils.ValidationFailedError(utils.ErrSessionBadReference, err)
	}
	parcel, err := h.parcels.FindByID(ctx, parcelID)
	if err != nil {
		return nil, storeError(err, utils.ErrParcelNotFound)
	}
	if parcel.IsPaid() {
		return nil, alreadyPaid(sessionID, parcel, nil)
	}

	payment, err := h.newPayment(session, parcel)
	if err != nil {
		return nil, utils.InternalError(utils.ErrInternalServer, err)
	}

	result, err := h.ledger.ConfirmPayment(ctx, payment)
	switch {
	case errors.Is(err, db.ErrDuplicate):
		// Another instance won between our lookup and insert.
		existing, err := h.payments.FindBySessionID(ctx, sessionID)
		if err != nil {
			return nil, storeError(err, utils.ErrPaymentNotFound)
		}
		return replay(existing), nil
	case errors.Is(err, db.ErrAlreadyPaid):
		// A second session for the same parcel was confirmed first.
		if current, findErr := h.parcels.FindByID(ctx, parcelID); findErr == nil {
			parcel = current
		}
		return nil, alreadyPaid(sessionID, parcel, err)
	case err != nil:
		return nil, storeError(err, utils.ErrParcelNotFound)
	}

	h.background.Add(1)
	go func() {
		defer h.background.Done()
		h.sendConfirmation(*payment)
	}()

	return &models.PaymentConfirmation{
		Success:       true,
		ParcelUpdate:  result.ParcelUpdate,
		PaymentInsert: result.PaymentInsert,
		TrackingID:    payment.TrackingID,
		TransactionID: payment.TransactionID,
	}, nil
}

// alreadyPaid reports a paid session whose parcel was settled by another one.
// The charge has to be refunded by hand, so it is logged as an error.
func alreadyPaid(sessionID string, parcel *models.Parcel, err error) *utils.AppError {
	utils.LogError("Session %s paid for parcel %s which is already paid under tracking id %s",
		sessionID, parcel.ID.Hex(), parcel.TrackingID)
	return utils.ConflictError(utils.ErrParcelAlreadyPaid, err).
		WithData(gin.H{"trackingId": parcel.TrackingID})
}

func (h *Handler) newPayment(session *gateway.CheckoutSession, parcel *models.Parcel) (*models.Payment, error) {
	now := h.now().UTC()
	trackingID, err := utils.GenerateTrackingID(now)
	if err != nil {
		return nil, err
	}

	name := session.Metadata[gateway.MetaParcelName]
	if name == "" {
		name = parcel.ParcelName
	}
	email := utils.NormalizeEmail(session.CustomerEmail)
	if email == "" {
		email = parcel.SenderEmail
	}
	currency := strings.ToLower(session.Currency)
	if currency == "" {
		currency = h.currency
	}

	return &models.Payment{
		ID:            primitive.NewObjectID(),
		Amount:        session.AmountTotal,
		Currency:      currency,
		CustomerEmail: email,
		ParcelID:      parcel.ID,
		ParcelName:    name,
		TransactionID: session.TransactionID,
		PaymentStatus: session.PaymentStatus,
		SessionID:     session.ID,
		Provider:      h.gateway.Name(),
		TrackingID:    trackingID,
		PaidAt:        now,
	}, nil
}

// replay rebuilds the summary of a session that was already recorded.
// No write happened, so the parcel update is reported empty.
func replay(payment *models.Payment) *models.PaymentConfirmation {
	return &models.PaymentConfirmation{
		Success:          true,
		PaymentInsert:    models.InsertResult{Acknowledged: true, InsertedID: payment.ID},
		TrackingID:       payment.TrackingID,
		TransactionID:    payment.TransactionID,
		AlreadyProcessed: true,
	}
}

func (h *Handler) sendConfirmation(payment models.Payment) {
	err := h.mailer.SendPaymentConfirmation(&payment)
	metrics.MailSent.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		utils.LogError("Failed to send payment confirmation for session %s to %s: %v",
			payment.SessionID, payment.CustomerEmail, err)
	}
}

// ListPayments returns payment history newest first
func (h *Handler) ListPayments(c *gin.Context) {
	email := utils.NormalizeEmail(c.Query("email"))
	utils.LogDebug("ListPayments called with email=%q", email)

	payments, err := h.payments.List(c.Request.Context(), email)
	if err != nil {
		utils.RespondWithError(c, storeError(err, utils.ErrPaymentNotFound))
		return
	}
	c.JSON(http.StatusOK, payments)
}
