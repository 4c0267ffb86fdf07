package gateway

import (
	"context"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/Govind-619/ZapShift/config"
	"github.com/Govind-619/ZapShift/models"
)

// RazorpayGateway uses Razorpay Payment Links as the hosted checkout.
// The payment link id plays the role of the session id.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(key, secret)}
}

func (g *RazorpayGateway) Name() string {
	return config.ProviderRazorpay
}

// CreateCheckoutSession ignores ctx: razorpay-go has no context support.
func (g *RazorpayGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	link, err := g.client.PaymentLink.Create(razorpayLinkData(req), nil)
	if err != nil {
		return nil, err
	}
	return fromRazorpayLink(link), nil
}

func (g *RazorpayGateway) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	link, err := g.client.PaymentLink.Fetch(id, nil, nil)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "does not exist") {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return fromRazorpayLink(link), nil
}

func razorpayLinkData(req CheckoutRequest) map[string]interface{} {
	// Razorpay appends razorpay_payment_link_id to the callback, so the
	// Stripe-style {CHECKOUT_SESSION_ID} placeholder is stripped.
	callback := strings.Replace(req.SuccessURL, "session_id={CHECKOUT_SESSION_ID}", "", 1)
	callback = strings.TrimRight(callback, "?&")

	return map[string]interface{}{
		"amount":      req.Amount.Minor(),
		"currency":    strings.ToUpper(req.Currency),
		"description": req.ParcelName,
		"customer": map[string]interface{}{
			"email": req.CustomerEmail,
		},
		"notify": map[string]interface{}{
			"email": true,
		},
		"notes": map[string]interface{}{
			MetaParcelID:   req.ParcelID,
			MetaParcelName: req.ParcelName,
		},
		"callback_url":    callback,
		"callback_method": "get",
	}
}

func fromRazorpayLink(link map[string]interface{}) *CheckoutSession {
	out := &CheckoutSession{
		ID:            stringField(link, "id"),
		URL:           stringField(link, "short_url"),
		PaymentStatus: stringField(link, "status"),
		AmountTotal:   models.Money(int64Field(link, "amount")),
		Currency:      strings.ToLower(stringField(link, "currency")),
		Metadata:      map[string]string{},
	}
	if customer, ok := link["customer"].(map[string]interface{}); ok {
		out.CustomerEmail = stringField(customer, "email")
	}
	if notes, ok := link["notes"].(map[string]interface{}); ok {
		for k, v := range notes {
			out.Metadata[k] = fmt.Sprint(v)
		}
	}
	if payments, ok := link["payments"].([]interface{}); ok {
		for _, p := range payments {
			payment, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if stringField(payment, "status") == "captured" || out.TransactionID == "" {
				out.TransactionID = stringField(payment, "payment_id")
			}
		}
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
