// Package gateway talks to the hosted-checkout payment providers.
package gateway

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/Govind-619/ZapShift/gateway Gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/ZapShift/config"
	"github.com/Govind-619/ZapShift/models"
)

// StatusPaid is the only payment status that confirms a parcel
const StatusPaid = "paid"

// Metadata keys attached to every checkout session
const (
	MetaParcelID   = "productId"
	MetaParcelName = "parcelName"
)

// ErrSessionNotFound is returned when the provider does not know a session id
var ErrSessionNotFound = errors.New("checkout session not found")

// CheckoutRequest describes a one-item hosted checkout for a parcel
type CheckoutRequest struct {
	ParcelID      string
	ParcelName    string
	CustomerEmail string
	Amount        models.Money
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the provider-neutral view of a checkout
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   models.Money
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	TransactionID string
}

// IsPaid reports whether the provider considers the checkout paid
func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == StatusPaid
}

// Gateway creates and looks up hosted checkout sessions
type Gateway interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

// New builds the gateway selected by PAYMENT_PROVIDER
func New(cfg *config.Config) (Gateway, error) {
	switch cfg.PaymentProvider {
	case config.ProviderStripe:
		return NewStripeGateway(cfg.StripeSecret), nil
	case config.ProviderRazorpay:
		return NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.PaymentProvider)
	}
}
