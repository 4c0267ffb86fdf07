package controllers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Govind-619/ZapShift/cache"
	"github.com/Govind-619/ZapShift/db"
	"github.com/Govind-619/ZapShift/gateway"
	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

// ParcelStore is the parcels collection as the handlers see it
type ParcelStore interface {
	Create(ctx context.Context, parcel *models.Parcel) (models.InsertResult, error)
	List(ctx context.Context, email string) ([]models.Parcel, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// PaymentStore is the read side of the payments collection
type PaymentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	List(ctx context.Context, email string) ([]models.Payment, error)
}

// Ledger performs the write that spans both collections
type Ledger interface {
	ConfirmPayment(ctx context.Context, payment *models.Payment) (db.ConfirmResult, error)
	Ping(ctx context.Context) error
}

// Deps lists everything the handlers need. Mailer and Now are optional.
type Deps struct {
	Parcels  ParcelStore
	Payments PaymentStore
	Ledger   Ledger
	Gateway  gateway.Gateway
	Locker   cache.Locker
	Mailer   utils.Mailer

	Currency         string
	ClientSideDomain string
	Now              func() time.Time
}

// Handler serves every HTTP endpoint
type Handler struct {
	parcels  ParcelStore
	payments PaymentStore
	ledger   Ledger
	gateway  gateway.Gateway
	locker   cache.Locker
	mailer   utils.Mailer

	currency         string
	clientSideDomain string
	now              func() time.Time

	// background tracks work that outlives its request, such as email
	background sync.WaitGroup
}

func NewHandler(deps Deps) *Handler {
	h := &Handler{
		parcels:          deps.Parcels,
		payments:         deps.Payments,
		ledger:           deps.Ledger,
		gateway:          deps.Gateway,
		locker:           deps.Locker,
		mailer:           deps.Mailer,
		currency:         deps.Currency,
		clientSideDomain: deps.ClientSideDomain,
		now:              deps.Now,
	}
	if h.mailer == nil {
		h.mailer = utils.NoopMailer{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.currency == "" {
		h.currency = "usd"
	}
	return h
}

// Wait blocks until background work started by handlers has finished or
// ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// storeError classifies a store failure. notFound is the message used when
// the lookup matched nothing.
func storeError(err error, notFound string) *utils.AppError {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return utils.NotFoundError(notFound, err)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return utils.ServiceUnavailableError(utils.ErrDBUnavailable, err)
	default:
		return utils.InternalError(utils.ErrInternalServer, err)
	}
}

func parseObjectID(hex, message string) (primitive.ObjectID, *utils.AppError) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, utils.BadRequestError(message, err)
	}
	return id, nil
}
