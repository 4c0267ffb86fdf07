package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

func samplePayment(email, currency string, amount models.Money, paidAt time.Time) models.Payment {
	return models.Payment{
		ID:            primitive.NewObjectID(),
		Amount:        amount,
		Currency:      currency,
		CustomerEmail: email,
		ParcelID:      primitive.NewObjectID(),
		ParcelName:    "Box",
		TransactionID: "pi_123",
		PaymentStatus: "paid",
		SessionID:     primitive.NewObjectID().Hex(),
		Provider:      "stripe",
		TrackingID:    "PRCL-20250314-ABC123",
		PaidAt:        paidAt,
	}
}

func TestDownloadReceipt(t *testing.T) {
	env := newTestEnv(t)
	payment := samplePayment("a@b.com", "usd", 2000, fixedNow)
	env.store.putPayment(payment)

	w := env.do(t, http.MethodGet, "/payments/"+payment.ID.Hex()+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt_PRCL-20250314-ABC123.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = env.do(t, http.MethodGet, "/payments/nope/receipt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrInvalidPaymentID, decodeEnvelope(t, w).Message)

	w = env.do(t, http.MethodGet, "/payments/"+primitive.NewObjectID().Hex()+"/receipt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.ErrPaymentNotFound, decodeEnvelope(t, w).Message)
}

func TestExportPayments(t *testing.T) {
	env := newTestEnv(t)
	env.store.putPayment(samplePayment("a@b.com", "usd", 2000, fixedNow))
	env.store.putPayment(samplePayment("a@b.com", "usd", 1050, fixedNow.Add(-time.Hour)))
	env.store.putPayment(samplePayment("a@b.com", "inr", 50000, fixedNow.Add(-2*time.Hour)))
	env.store.putPayment(samplePayment("x@y.com", "usd", 999, fixedNow))

	w := env.do(t, http.MethodGet, "/payments/export?email=a@b.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payments_20250314.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet["Payments"]
	require.True(t, ok)

	totals := map[string]string{}
	dataRows := 0
	for _, row := range sheet.Rows {
		if len(row.Cells) == 0 {
			continue
		}
		switch row.Cells[0].Value {
		case "Total":
			totals[row.Cells[5].Value] = row.Cells[4].Value
		default:
			if len(row.Cells) == 8 && row.Cells[1].Value == "PRCL-20250314-ABC123" {
				dataRows++
			}
		}
	}
	assert.Equal(t, 3, dataRows)
	assert.Equal(t, map[string]string{"USD": "30.50", "INR": "500.00"}, totals)
}

func TestExportPaymentsStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = errStoreDown

	w := env.do(t, http.MethodGet, "/payments/export", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, map[string]interface{}{"database": "up", "cache": "up"}, resp.Data)

	env.store.pingErr = errors.New("no reachable servers")
	w = env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp = decodeEnvelope(t, w)
	assert.Equal(t, map[string]interface{}{"database": "down", "cache": "up"}, resp.Data)
}
