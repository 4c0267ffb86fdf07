package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Govind-619/ZapShift/cache"
	"github.com/Govind-619/ZapShift/gateway/mocks"
	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *memStore
	gateway *mocks.MockGateway
	locker  *cache.MemoryLocker
	mailer  *chanMailer
	handler *Handler
	router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	gw.EXPECT().Name().Return("stripe").AnyTimes()

	env := &testEnv{
		store:   newMemStore(),
		gateway: gw,
		locker:  cache.NewMemoryLocker(),
		mailer:  newChanMailer(),
	}
	env.handler = NewHandler(Deps{
		Parcels:          env.store,
		Payments:         memPayments{env.store},
		Ledger:           env.store,
		Gateway:          gw,
		Locker:           env.locker,
		Mailer:           env.mailer,
		Currency:         "usd",
		ClientSideDomain: "http://localhost:5173",
		Now:              func() time.Time { return fixedNow },
	})
	env.router = testRouter(env.handler)
	return env
}

// testRouter mirrors the production route table without the global middleware
func testRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.POST("/parcels", h.CreateParcel)
	r.GET("/parcels", h.ListParcels)
	r.GET("/parcels/:id", h.GetParcel)
	r.DELETE("/parcels/:id", h.DeleteParcel)
	r.GET("/tracking/:trackingId", h.TrackParcel)
	r.POST("/create-checkout-session", h.CreateCheckoutSession)
	r.PATCH("/on-payment-success", h.ConfirmPayment)
	r.GET("/payments", h.ListPayments)
	r.GET("/payments/export", h.ExportPayments)
	r.GET("/payments/:id/receipt", h.DownloadReceipt)
	return r
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedParcel(t *testing.T, paid bool) models.Parcel {
	t.Helper()
	parcel := models.NewParcel(models.ParcelDetails{
		ParcelName:  "Box",
		SenderEmail: "a@b.com",
		Cost:        2000,
	}, fixedNow)
	if paid {
		paidAt := fixedNow
		parcel.PaymentStatus = models.PaymentStatusPaid
		parcel.TrackingID = "PRCL-20250314-ABC123"
		parcel.PaidAt = &paidAt
	}
	e.store.putParcel(*parcel)
	return *parcel
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.StandardResponse {
	t.Helper()
	var resp utils.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeMap(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
