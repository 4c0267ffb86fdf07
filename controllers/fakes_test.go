package controllers

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Govind-619/ZapShift/db"
	"github.com/Govind-619/ZapShift/models"
)

// memStore implements ParcelStore, PaymentStore and Ledger over maps
type memStore struct {
	mu       sync.Mutex
	parcels  map[primitive.ObjectID]models.Parcel
	payments map[primitive.ObjectID]models.Payment

	// err, when set, is returned by every call
	err error
	// beforeConfirm runs inside ConfirmPayment before any write
	beforeConfirm func(s *memStore, payment *models.Payment) error
	pingErr       error
}

func newMemStore() *memStore {
	return &memStore{
		parcels:  make(map[primitive.ObjectID]models.Parcel),
		payments: make(map[primitive.ObjectID]models.Payment),
	}
}

func (s *memStore) putParcel(p models.Parcel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parcels[p.ID] = p
}

func (s *memStore) putPayment(p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

func (s *memStore) parcel(id primitive.ObjectID) (models.Parcel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parcels[id]
	return p, ok
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) Create(_ context.Context, parcel *models.Parcel) (models.InsertResult, error) {
	if s.err != nil {
		return models.InsertResult{}, s.err
	}
	if parcel.ID.IsZero() {
		parcel.ID = primitive.NewObjectID()
	}
	s.putParcel(*parcel)
	return models.InsertResult{Acknowledged: true, InsertedID: parcel.ID}, nil
}

func (s *memStore) List(_ context.Context, email string) ([]models.Parcel, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Parcel, 0)
	for _, p := range s.parcels {
		if email == "" || p.SenderEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.parcel(id)
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindByTrackingID(_ context.Context, trackingID string) (*models.Parcel, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parcels {
		if p.TrackingID == trackingID {
			return &p, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	if s.err != nil {
		return models.DeleteResult{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parcels[id]; !ok {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	delete(s.parcels, id)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// memPayments is the PaymentStore view; its method names overlap with ParcelStore
type memPayments struct{ *memStore }

func (s memPayments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &p, nil
}

func (s memPayments) FindBySessionID(_ context.Context, sessionID string) (*models.Payment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.SessionID == sessionID {
			return &p, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s memPayments) List(_ context.Context, email string) ([]models.Payment, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Payment, 0)
	for _, p := range s.payments {
		if email == "" || p.CustomerEmail == email {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (s *memStore) ConfirmPayment(_ context.Context, payment *models.Payment) (db.ConfirmResult, error) {
	if s.err != nil {
		return db.ConfirmResult{}, s.err
	}
	if s.beforeConfirm != nil {
		if err := s.beforeConfirm(s, payment); err != nil {
			return db.ConfirmResult{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.SessionID == payment.SessionID {
			return db.ConfirmResult{}, db.ErrDuplicate
		}
	}
	parcel, ok := s.parcels[payment.ParcelID]
	if !ok {
		return db.ConfirmResult{}, db.ErrNotFound
	}
	if parcel.IsPaid() {
		return db.ConfirmResult{}, db.ErrAlreadyPaid
	}

	paidAt := payment.PaidAt
	parcel.PaymentStatus = models.PaymentStatusPaid
	parcel.TrackingID = payment.TrackingID
	parcel.PaidAt = &paidAt
	s.parcels[parcel.ID] = parcel
	s.payments[payment.ID] = *payment

	return db.ConfirmResult{
		ParcelUpdate:  models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1},
		PaymentInsert: models.InsertResult{Acknowledged: true, InsertedID: payment.ID},
	}, nil
}

func (s *memStore) Ping(context.Context) error {
	return s.pingErr
}

// chanMailer records confirmation emails sent in the background. When hold
// is set each send blocks until it is closed.
type chanMailer struct {
	sent chan models.Payment
	err  error
	hold chan struct{}
}

func newChanMailer() *chanMailer {
	return &chanMailer{sent: make(chan models.Payment, 8)}
}

func (m *chanMailer) SendPaymentConfirmation(p *models.Payment) error {
	if m.hold != nil {
		<-m.hold
	}
	m.sent <- *p
	return m.err
}

var errStoreDown = errors.New("connection refused")
