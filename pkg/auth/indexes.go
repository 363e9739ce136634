package auth

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meridianpay/wallet-platform-backend/db"
)

// EnsureIndexes creates the indexes required by the auth collections. Safe to
// run on every startup.
func EnsureIndexes(ctx context.Context, mongoPool *db.MongoPool) error {
	_, err := mongoPool.Collection(usersCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating auth_users indexes: %w", err)
	}

	_, err = mongoPool.Collection(passwordResetsCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_valid", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating auth_password_resets indexes: %w", err)
	}

	_, err = mongoPool.Collection(otpCodesCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating auth_otp_codes indexes: %w", err)
	}

	return nil
}
