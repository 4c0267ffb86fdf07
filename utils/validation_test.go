package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Govind-619/ZapShift/models"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+880 1712-345678", "+8801712345678", false},
		{"(555) 010.2000", "5550102000", false},
		{"12345", "", true},
		{"call me", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatPhoneNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeParcelDetails(t *testing.T) {
	d := models.ParcelDetails{
		ParcelName:    "  Box ",
		SenderEmail:   "A@B.com",
		ReceiverEmail: " Rec@Example.COM ",
		SenderPhone:   "+880 1712-345678",
		SenderAddress: " 12 Road ",
	}
	errs := NormalizeParcelDetails(&d)
	assert.Empty(t, errs)
	assert.Equal(t, "Box", d.ParcelName)
	assert.Equal(t, "a@b.com", d.SenderEmail)
	assert.Equal(t, "rec@example.com", d.ReceiverEmail)
	assert.Equal(t, "+8801712345678", d.SenderPhone)
	assert.Equal(t, "12 Road", d.SenderAddress)

	bad := models.ParcelDetails{
		ParcelName:          "<script>alert(1)</script>",
		DeliveryInstruction: `leave it onclick="x()"`,
		ReceiverPhone:       "abc",
	}
	errs = NormalizeParcelDetails(&bad)
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.Equal(t, map[string]bool{"parcelName": true, "deliveryInstruction": true, "receiverPhone": true}, fields)
	assert.Contains(t, errs.Error(), "receiverPhone: ")
}
