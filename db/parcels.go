package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Govind-619/ZapShift/models"
)

var (
	// ErrNotFound is returned when no document matches a lookup
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate document")
	// ErrAlreadyPaid is returned when a parcel was marked paid by another payment
	ErrAlreadyPaid = errors.New("parcel already paid")
)

// ParcelService wraps the parcels collection
type ParcelService struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewParcelService(parcels *mongo.Collection, timeout time.Duration) *ParcelService {
	return &ParcelService{collection: parcels, timeout: timeout}
}

func (s *ParcelService) Create(ctx context.Context, parcel *models.Parcel) (models.InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if parcel.ID.IsZero() {
		parcel.ID = primitive.NewObjectID()
	}
	res, err := s.collection.InsertOne(ctx, parcel)
	if err != nil {
		return models.InsertResult{}, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.InsertResult{}, errors.New("failed to extract inserted id")
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// List returns every parcel, or only those sent by email when it is set
func (s *ParcelService) List(ctx context.Context, email string) ([]models.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{}
	if email != "" {
		filter["senderEmail"] = email
	}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	parcels := make([]models.Parcel, 0)
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, err
	}
	return parcels, nil
}

func (s *ParcelService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *ParcelService) FindByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error) {
	return s.findOne(ctx, bson.M{"trackingId": trackingID})
}

func (s *ParcelService) findOne(ctx context.Context, filter bson.M) (*models.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var parcel models.Parcel
	err := s.collection.FindOne(ctx, filter).Decode(&parcel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (s *ParcelService) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// markPaid sets the payment status and tracking id of one unpaid parcel.
// A parcel that is missing yields ErrNotFound, one that is already paid
// yields ErrAlreadyPaid; neither is modified.
func markPaid(ctx context.Context, parcels *mongo.Collection, id primitive.ObjectID, trackingID string, paidAt time.Time) (models.UpdateResult, error) {
	res, err := parcels.UpdateOne(ctx,
		bson.M{"_id": id, "paymentStatus": bson.M{"$ne": models.PaymentStatusPaid}},
		bson.M{"$set": bson.M{
			"paymentStatus": models.PaymentStatusPaid,
			"trackingId":    trackingID,
			"paidAt":        paidAt,
		}},
	)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if res.MatchedCount == 0 {
		n, err := parcels.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return models.UpdateResult{}, err
		}
		if n > 0 {
			return models.UpdateResult{}, ErrAlreadyPaid
		}
		return models.UpdateResult{}, ErrNotFound
	}
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}
