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

// Wallet is the local mirror of a subaccount provisioned on the hosted custody
// platform. The platform owns the ledger; this record only maps our user to
// the platform account and caches its deposit address.
type Wallet struct {
	ID               string    `bson:"_id" json:"id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	CustodyAccountID string    `bson:"custody_account_id" json:"custody_account_id"`
	Asset            string    `bson:"asset" json:"asset"`
	Address          string    `bson:"address" json:"address"`
	Label            string    `bson:"label" json:"label"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

type WalletInsert struct {
	UserID           string
	CustodyAccountID string
	Asset            string
	Address          string
	Label            string
}

func (wi WalletInsert) Validate() error {
	if wi.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if wi.CustodyAccountID == "" {
		return fmt.Errorf("custody account ID is required")
	}
	if wi.Asset == "" {
		return fmt.Errorf("asset is required")
	}
	return nil
}

type WalletModel struct {
	mongoPool *db.MongoPool
}

func (m *WalletModel) collection() *mongo.Collection {
	return m.mongoPool.Collection(WalletsCollection)
}

// Insert stores a new wallet mirror record and returns it.
func (m *WalletModel) Insert(ctx context.Context, insert WalletInsert) (*Wallet, error) {
	if err := insert.Validate(); err != nil {
		return nil, fmt.Errorf("validating wallet insert: %w", err)
	}

	now := time.Now().UTC()
	wallet := &Wallet{
		ID:               uuid.NewString(),
		UserID:           insert.UserID,
		CustodyAccountID: insert.CustodyAccountID,
		Asset:            insert.Asset,
		Address:          insert.Address,
		Label:            insert.Label,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := m.collection().InsertOne(ctx, wallet)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrRecordAlreadyExists
		}
		return nil, fmt.Errorf("inserting wallet: %w", err)
	}

	return wallet, nil
}

// Get returns the wallet with the given ID, scoped to the owning user.
func (m *WalletModel) Get(ctx context.Context, id, userID string) (*Wallet, error) {
	var wallet Wallet
	err := m.collection().FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&wallet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting wallet ID %s: %w", id, err)
	}
	return &wallet, nil
}

// GetAllByUserID returns every wallet owned by the user, newest first.
func (m *WalletModel) GetAllByUserID(ctx context.Context, userID string) ([]Wallet, error) {
	qp := QueryParams{PageLimit: MaxPageLimit, Filters: map[FilterKey]interface{}{FilterKeyUserID: userID}}
	qp.Normalize()

	cursor, err := m.collection().Find(ctx, qp.BuildFilter(), qp.BuildFindOptions())
	if err != nil {
		return nil, fmt.Errorf("finding wallets for user ID %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	wallets := []Wallet{}
	if err := cursor.All(ctx, &wallets); err != nil {
		return nil, fmt.Errorf("decoding wallets for user ID %s: %w", userID, err)
	}
	return wallets, nil
}

// UpdateAddress caches the deposit address reported by the custody platform.
func (m *WalletModel) UpdateAddress(ctx context.Context, id, address string) error {
	update := bson.M{"$set": bson.M{"address": address, "updated_at": time.Now().UTC()}}
	res, err := m.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("updating wallet ID %s address: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func ensureWalletIndexes(ctx context.Context, pool *db.MongoPool) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "asset", Value: 1}, {Key: "label", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "custody_account_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := pool.Collection(WalletsCollection).Indexes().CreateMany(ctx, indexes)
	return err
}
