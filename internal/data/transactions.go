package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meridianpay/wallet-platform-backend/db"
)

type TransactionStatus string

const (
	PendingTransactionStatus   TransactionStatus = "pending"
	CompletedTransactionStatus TransactionStatus = "completed"
	FailedTransactionStatus    TransactionStatus = "failed"
	CancelledTransactionStatus TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case PendingTransactionStatus, CompletedTransactionStatus, FailedTransactionStatus, CancelledTransactionStatus:
		return true
	}
	return false
}

type TransactionDirection string

const (
	IncomingTransactionDirection TransactionDirection = "incoming"
	OutgoingTransactionDirection TransactionDirection = "outgoing"
)

// Transaction mirrors a transfer executed by the custody platform. Amounts are
// stored as decimal strings exactly as the platform reports them; no math is
// done on the mirror.
type Transaction struct {
	ID                string               `bson:"_id" json:"id"`
	UserID            string               `bson:"user_id" json:"user_id"`
	WalletID          string               `bson:"wallet_id" json:"wallet_id"`
	CustodyTransferID string               `bson:"custody_transfer_id" json:"custody_transfer_id"`
	Direction         TransactionDirection `bson:"direction" json:"direction"`
	Status            TransactionStatus    `bson:"status" json:"status"`
	Amount            string               `bson:"amount" json:"amount"`
	Fee               string               `bson:"fee" json:"fee"`
	Asset             string               `bson:"asset" json:"asset"`
	Counterparty      string               `bson:"counterparty" json:"counterparty"`
	CreatedAt         time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time            `bson:"updated_at" json:"updated_at"`
}

type TransactionInsert struct {
	UserID            string
	WalletID          string
	CustodyTransferID string
	Direction         TransactionDirection
	Status            TransactionStatus
	Amount            string
	Fee               string
	Asset             string
	Counterparty      string
}

func (ti TransactionInsert) Validate() error {
	if ti.UserID == "" || ti.WalletID == "" {
		return fmt.Errorf("user ID and wallet ID are required")
	}
	if ti.CustodyTransferID == "" {
		return fmt.Errorf("custody transfer ID is required")
	}
	if ti.Direction != IncomingTransactionDirection && ti.Direction != OutgoingTransactionDirection {
		return fmt.Errorf("direction %q is invalid", ti.Direction)
	}
	if !ti.Status.IsValid() {
		return fmt.Errorf("status %q is invalid", ti.Status)
	}
	if ti.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	return nil
}

type TransactionModel struct {
	mongoPool *db.MongoPool
}

func (m *TransactionModel) collection() *mongo.Collection {
	return m.mongoPool.Collection(TransactionsCollection)
}

func (m *TransactionModel) Insert(ctx context.Context, insert TransactionInsert) (*Transaction, error) {
	if err := insert.Validate(); err != nil {
		return nil, fmt.Errorf("validating transaction insert: %w", err)
	}

	now := time.Now().UTC()
	tx := &Transaction{
		ID:                uuid.NewString(),
		UserID:            insert.UserID,
		WalletID:          insert.WalletID,
		CustodyTransferID: insert.CustodyTransferID,
		Direction:         insert.Direction,
		Status:            insert.Status,
		Amount:            insert.Amount,
		Fee:               insert.Fee,
		Asset:             insert.Asset,
		Counterparty:      insert.Counterparty,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := m.collection().InsertOne(ctx, tx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrRecordAlreadyExists
		}
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}

	return tx, nil
}

func (m *TransactionModel) Get(ctx context.Context, id, userID string) (*Transaction, error) {
	var tx Transaction
	err := m.collection().FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting transaction ID %s: %w", id, err)
	}
	return &tx, nil
}

// GetAll returns a page of transactions plus the total count matching the
// filters, so callers can expose pagination metadata.
func (m *TransactionModel) GetAll(ctx context.Context, qp QueryParams) ([]*Transaction, int64, error) {
	qp.Normalize()
	filter := qp.BuildFilter()

	total, err := m.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	cursor, err := m.collection().Find(ctx, filter, qp.BuildFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("finding transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txs := []*Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, 0, fmt.Errorf("decoding transactions: %w", err)
	}
	return txs, total, nil
}

// UpdateStatus moves a mirror record to the status reported by the platform.
func (m *TransactionModel) UpdateStatus(ctx context.Context, custodyTransferID string, status TransactionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("status %q is invalid", status)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := m.collection().UpdateOne(ctx, bson.M{"custody_transfer_id": custodyTransferID}, update)
	if err != nil {
		return fmt.Errorf("updating transaction with custody transfer ID %s: %w", custodyTransferID, err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func ensureTransactionIndexes(ctx context.Context, pool *db.MongoPool) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "custody_transfer_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "wallet_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	_, err := pool.Collection(TransactionsCollection).Indexes().CreateMany(ctx, indexes)
	return err
}
