package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

func TestRoot(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, utils.RootMessage, w.Body.String())
}

func TestCreateAndListParcels(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/parcels", map[string]interface{}{
		"parcelName":  "Box",
		"senderEmail": "a@b.com",
		"cost":        20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var inserted models.InsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inserted))
	assert.True(t, inserted.Acknowledged)
	require.False(t, inserted.InsertedID.IsZero())

	stored, ok := env.store.parcel(inserted.InsertedID)
	require.True(t, ok)
	assert.Equal(t, models.PaymentStatusUnpaid, stored.PaymentStatus)
	assert.Equal(t, models.Money(2000), stored.Cost)
	assert.Equal(t, fixedNow, stored.CreatedAt)

	// another sender's parcel must not show up in the filtered list
	env.store.putParcel(*models.NewParcel(models.ParcelDetails{
		ParcelName: "Other", SenderEmail: "x@y.com", Cost: 100,
	}, fixedNow))

	w = env.do(t, http.MethodGet, "/parcels?email=a@b.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var parcels []models.Parcel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parcels))
	require.Len(t, parcels, 1)
	assert.Equal(t, inserted.InsertedID, parcels[0].ID)
	assert.Equal(t, "Box", parcels[0].ParcelName)

	w = env.do(t, http.MethodGet, "/parcels", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parcels))
	assert.Len(t, parcels, 2)
}

func TestListParcelsEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/parcels?email=nobody@b.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateParcelValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"malformed json", `{"parcelName":`},
		{"missing sender email", map[string]interface{}{"parcelName": "Box", "cost": 20}},
		{"invalid sender email", map[string]interface{}{"parcelName": "Box", "senderEmail": "nope", "cost": 20}},
		{"missing cost", map[string]interface{}{"parcelName": "Box", "senderEmail": "a@b.com"}},
		{"non-positive cost", map[string]interface{}{"parcelName": "Box", "senderEmail": "a@b.com", "cost": 0}},
		{"non-numeric cost", map[string]interface{}{"parcelName": "Box", "senderEmail": "a@b.com", "cost": "abc"}},
		{"markup in name", map[string]interface{}{"parcelName": "<b>Box</b>", "senderEmail": "a@b.com", "cost": 20}},
		{"blank name", map[string]interface{}{"parcelName": "   ", "senderEmail": "a@b.com", "cost": 20}},
		{"bad phone", map[string]interface{}{"parcelName": "Box", "senderEmail": "a@b.com", "cost": 20, "senderPhone": "call me"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(t, http.MethodPost, "/parcels", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Equal(t, utils.ErrInvalidBody, decodeEnvelope(t, w).Message)

			parcels, _ := env.store.List(context.Background(), "")
			assert.Empty(t, parcels)
		})
	}
}

func TestCreateParcelStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = errStoreDown

	w := env.do(t, http.MethodPost, "/parcels", map[string]interface{}{
		"parcelName": "Box", "senderEmail": "a@b.com", "cost": 20,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, utils.ErrInternalServer, resp.Message)
	assert.NotContains(t, w.Body.String(), errStoreDown.Error())
}

func TestListParcelsStoreTimeout(t *testing.T) {
	env := newTestEnv(t)
	env.store.err = context.DeadlineExceeded

	w := env.do(t, http.MethodGet, "/parcels", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, utils.ErrDBUnavailable, decodeEnvelope(t, w).Message)
}

func TestDeleteParcel(t *testing.T) {
	env := newTestEnv(t)
	parcel := env.seedParcel(t, false)

	t.Run("invalid id", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/parcels/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, utils.ErrInvalidParcelID, decodeEnvelope(t, w).Message)
	})

	t.Run("missing parcel", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/parcels/"+primitive.NewObjectID().Hex(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		body := decodeMap(t, w.Body.Bytes())
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, map[string]interface{}{"acknowledged": true, "deletedCount": float64(0)}, body["data"])
	})

	t.Run("existing parcel", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/parcels/"+parcel.ID.Hex(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, w.Body.String())

		_, ok := env.store.parcel(parcel.ID)
		assert.False(t, ok)
	})
}

func TestGetParcel(t *testing.T) {
	env := newTestEnv(t)
	parcel := env.seedParcel(t, false)

	w := env.do(t, http.MethodGet, "/parcels/"+parcel.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Parcel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, parcel.ID, got.ID)

	w = env.do(t, http.MethodGet, "/parcels/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.ErrParcelNotFound, decodeEnvelope(t, w).Message)
}

func TestTrackParcel(t *testing.T) {
	env := newTestEnv(t)
	parcel := env.seedParcel(t, true)

	tests := []struct {
		name       string
		trackingID string
		wantStatus int
	}{
		{"found", parcel.TrackingID, http.StatusOK},
		{"unknown", "PRCL-20250314-ZZZZZZ", http.StatusNotFound},
		{"malformed", "PRCL-123", http.StatusBadRequest},
		{"lowercase suffix", "PRCL-20250314-abc123", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/tracking/"+tt.trackingID, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestListParcelsMatchesSubmittedEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/parcels", map[string]interface{}{
		"senderEmail": "Alice@Example.com", "parcelName": "Box", "cost": 20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, email := range []string{"Alice@Example.com", "alice@example.com", " ALICE@example.com "} {
		w = env.do(t, http.MethodGet, "/parcels?email="+url.QueryEscape(email), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var parcels []models.Parcel
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parcels))
		assert.Len(t, parcels, 1, email)
	}
}
