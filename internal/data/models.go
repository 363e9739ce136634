package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridianpay/wallet-platform-backend/db"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrRecordAlreadyExists = errors.New("record already exists")
	ErrMissingInput        = errors.New("missing input")
)

// Collection names.
const (
	WalletsCollection      = "wallets"
	TransactionsCollection = "transactions"
	APIKeysCollection      = "api_keys"
)

type Models struct {
	Wallets      *WalletModel
	Transactions *TransactionModel
	APIKeys      *APIKeyModel
	MongoPool    *db.MongoPool
}

func NewModels(mongoPool *db.MongoPool) (*Models, error) {
	if mongoPool == nil {
		return nil, errors.New("mongoPool is required for NewModels")
	}
	return &Models{
		Wallets:      &WalletModel{mongoPool: mongoPool},
		Transactions: &TransactionModel{mongoPool: mongoPool},
		APIKeys:      &APIKeyModel{mongoPool: mongoPool},
		MongoPool:    mongoPool,
	}, nil
}

// EnsureIndexes creates the indexes the models depend on. It is idempotent and
// runs at startup.
func (m *Models) EnsureIndexes(ctx context.Context) error {
	if err := ensureWalletIndexes(ctx, m.MongoPool); err != nil {
		return fmt.Errorf("ensuring wallet indexes: %w", err)
	}
	if err := ensureTransactionIndexes(ctx, m.MongoPool); err != nil {
		return fmt.Errorf("ensuring transaction indexes: %w", err)
	}
	if err := ensureAPIKeyIndexes(ctx, m.MongoPool); err != nil {
		return fmt.Errorf("ensuring api key indexes: %w", err)
	}
	return nil
}
