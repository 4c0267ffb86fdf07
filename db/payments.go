package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Govind-619/ZapShift/models"
)

// PaymentService wraps the payments collection
type PaymentService struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewPaymentService(payments *mongo.Collection, timeout time.Duration) *PaymentService {
	return &PaymentService{collection: payments, timeout: timeout}
}

func (s *PaymentService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *PaymentService) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	return s.findOne(ctx, bson.M{"sessionId": sessionID})
}

func (s *PaymentService) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var payment models.Payment
	err := s.collection.FindOne(ctx, filter).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns payments newest first, optionally for one customer email
func (s *PaymentService) List(ctx context.Context, email string) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{}
	if email != "" {
		filter["customerEmail"] = email
	}
	opts := options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func insertPayment(ctx context.Context, payments *mongo.Collection, payment *models.Payment) (models.InsertResult, error) {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if _, err := payments.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.InsertResult{}, ErrDuplicate
		}
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: payment.ID}, nil
}
