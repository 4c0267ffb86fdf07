package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parcel payment states
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// ParcelDetails holds the fields a sender submits when booking a parcel
type ParcelDetails struct {
	ParcelType          string  `json:"parcelType,omitempty" bson:"parcelType,omitempty"`
	ParcelName          string  `json:"parcelName" bson:"parcelName" binding:"required,max=200"`
	ParcelWeight        float64 `json:"parcelWeight,omitempty" bson:"parcelWeight,omitempty" binding:"gte=0"`
	SenderName          string  `json:"senderName,omitempty" bson:"senderName,omitempty"`
	SenderEmail         string  `json:"senderEmail" bson:"senderEmail" binding:"required,email"`
	SenderPhone         string  `json:"senderPhone,omitempty" bson:"senderPhone,omitempty"`
	SenderRegion        string  `json:"senderRegion,omitempty" bson:"senderRegion,omitempty"`
	SenderDistrict      string  `json:"senderDistrict,omitempty" bson:"senderDistrict,omitempty"`
	SenderAddress       string  `json:"senderAddress,omitempty" bson:"senderAddress,omitempty"`
	ReceiverName        string  `json:"receiverName,omitempty" bson:"receiverName,omitempty"`
	ReceiverEmail       string  `json:"receiverEmail,omitempty" bson:"receiverEmail,omitempty" binding:"omitempty,email"`
	ReceiverPhone       string  `json:"receiverPhone,omitempty" bson:"receiverPhone,omitempty"`
	ReceiverRegion      string  `json:"receiverRegion,omitempty" bson:"receiverRegion,omitempty"`
	ReceiverDistrict    string  `json:"receiverDistrict,omitempty" bson:"receiverDistrict,omitempty"`
	ReceiverAddress     string  `json:"receiverAddress,omitempty" bson:"receiverAddress,omitempty"`
	PickupInstruction   string  `json:"pickupInstruction,omitempty" bson:"pickupInstruction,omitempty"`
	DeliveryInstruction string  `json:"deliveryInstruction,omitempty" bson:"deliveryInstruction,omitempty"`
	Cost                Money   `json:"cost" bson:"cost" binding:"required,gt=0"`
}

// Parcel is a shipment record as stored in the parcels collection
type Parcel struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ParcelDetails `bson:",inline"`
	PaymentStatus string     `json:"paymentStatus" bson:"paymentStatus"`
	TrackingID    string     `json:"trackingId,omitempty" bson:"trackingId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	PaidAt        *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// NewParcel builds an unpaid parcel with a fresh identifier
func NewParcel(details ParcelDetails, now time.Time) *Parcel {
	return &Parcel{
		ID:            primitive.NewObjectID(),
		ParcelDetails: details,
		PaymentStatus: PaymentStatusUnpaid,
		CreatedAt:     now.UTC(),
	}
}

// IsPaid reports whether the parcel's payment has been confirmed
func (p *Parcel) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}

// PaymentIntent is the body of POST /create-checkout-session
type PaymentIntent struct {
	ParcelID    string `json:"_id" binding:"required"`
	Cost        Money  `json:"cost" binding:"required,gt=0"`
	ParcelName  string `json:"parcelName" binding:"required"`
	SenderEmail string `json:"senderEmail" binding:"required,email"`
}
