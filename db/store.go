package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Govind-619/ZapShift/models"
	"github.com/Govind-619/ZapShift/utils"
)

// Options selects the database layout and write behaviour of a Store
type Options struct {
	DBName             string
	ParcelsCollection  string
	PaymentsCollection string
	// Transactions requires a replica set or sharded cluster. Without it the
	// confirmation falls back to insert-then-update with a compensating delete.
	Transactions bool
	Timeout      time.Duration
}

// ConfirmResult carries both write acknowledgements of a payment confirmation
type ConfirmResult struct {
	ParcelUpdate  models.UpdateResult
	PaymentInsert models.InsertResult
}

// Store owns the two collections and the writes that span both of them
type Store struct {
	client       *mongo.Client
	parcels      *mongo.Collection
	payments     *mongo.Collection
	transactions bool
	timeout      time.Duration

	Parcels  *ParcelService
	Payments *PaymentService
}

func NewStore(client *mongo.Client, opts Options) *Store {
	database := client.Database(opts.DBName)
	return newStore(client,
		database.Collection(opts.ParcelsCollection),
		database.Collection(opts.PaymentsCollection),
		opts)
}

func newStore(client *mongo.Client, parcels, payments *mongo.Collection, opts Options) *Store {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Store{
		client:       client,
		parcels:      parcels,
		payments:     payments,
		transactions: opts.Transactions,
		timeout:      opts.Timeout,
		Parcels:      NewParcelService(parcels, opts.Timeout),
		Payments:     NewPaymentService(payments, opts.Timeout),
	}
}

// EnsureIndexes creates the lookup and uniqueness indexes both collections rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.parcels.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "senderEmail", Value: 1}}},
		{
			Keys:    bson.D{{Key: "trackingId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.payments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customerEmail", Value: 1}, {Key: "paidAt", Value: -1}}},
	})
	return err
}

// Ping checks that the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// ConfirmPayment records payment and marks its parcel paid as one unit.
// ErrDuplicate means the session was already recorded, ErrNotFound means
// the parcel does not exist and ErrAlreadyPaid means another payment got
// there first. In every case nothing is left behind.
func (s *Store) ConfirmPayment(ctx context.Context, payment *models.Payment) (ConfirmResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !s.transactions {
		return s.confirmWithCompensation(ctx, payment)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return ConfirmResult{}, err
	}
	defer session.EndSession(context.Background())

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return s.confirm(sc, payment)
	})
	if err != nil {
		return ConfirmResult{}, err
	}
	return out.(ConfirmResult), nil
}

func (s *Store) confirm(ctx context.Context, payment *models.Payment) (ConfirmResult, error) {
	inserted, err := insertPayment(ctx, s.payments, payment)
	if err != nil {
		return ConfirmResult{}, err
	}
	updated, err := markPaid(ctx, s.parcels, payment.ParcelID, payment.TrackingID, payment.PaidAt)
	if err != nil {
		return ConfirmResult{}, err
	}
	return ConfirmResult{ParcelUpdate: updated, PaymentInsert: inserted}, nil
}

// confirmWithCompensation inserts first so the unique sessionId index guards
// against double processing, then removes the record if the parcel update fails.
func (s *Store) confirmWithCompensation(ctx context.Context, payment *models.Payment) (ConfirmResult, error) {
	inserted, err := insertPayment(ctx, s.payments, payment)
	if err != nil {
		return ConfirmResult{}, err
	}

	updated, err := markPaid(ctx, s.parcels, payment.ParcelID, payment.TrackingID, payment.PaidAt)
	if err != nil {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, delErr := s.payments.DeleteOne(cleanupCtx, bson.M{"_id": inserted.InsertedID}); delErr != nil {
			utils.LogError("Failed to roll back payment %s for session %s: %v", inserted.InsertedID.Hex(), payment.SessionID, delErr)
			return ConfirmResult{}, errors.Join(err, delErr)
		}
		return ConfirmResult{}, err
	}

	return ConfirmResult{ParcelUpdate: updated, PaymentInsert: inserted}, nil
}
