package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is one completed checkout, stored in the payments collection.
// SessionID is unique: a checkout session yields at most one record.
type Payment struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Amount        Money              `json:"amount" bson:"amount"`
	Currency      string             `json:"currency" bson:"currency"`
	CustomerEmail string             `json:"customerEmail" bson:"customerEmail"`
	ParcelID      primitive.ObjectID `json:"parcelId" bson:"parcelId"`
	ParcelName    string             `json:"parcelName" bson:"parcelName"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	PaymentStatus string             `json:"paymentStatus" bson:"paymentStatus"`
	SessionID     string             `json:"sessionId" bson:"sessionId"`
	Provider      string             `json:"provider" bson:"provider"`
	TrackingID    string             `json:"trackingId" bson:"trackingId"`
	PaidAt        time.Time          `json:"paidAt" bson:"paidAt"`
}

// InsertResult mirrors the store's insert acknowledgement
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// DeleteResult mirrors the store's delete acknowledgement
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateResult mirrors the store's update acknowledgement
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// PaymentConfirmation is the response of PATCH /on-payment-success
type PaymentConfirmation struct {
	Success          bool         `json:"success"`
	ParcelUpdate     UpdateResult `json:"parcelUpdate"`
	PaymentInsert    InsertResult `json:"paymentInsert"`
	TrackingID       string       `json:"trackingId"`
	TransactionID    string       `json:"transactionId"`
	AlreadyProcessed bool         `json:"alreadyProcessed,omitempty"`
}
