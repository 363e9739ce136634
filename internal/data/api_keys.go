package data

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meridianpay/wallet-platform-backend/db"
)

const (
	APIKeyPrefix     = "WPK_"
	APIKeySaltSize   = 16
	APIKeySecretSize = 32
	maxAttempts      = 3
)

// alphabet is the allowed character set for the keygen
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type APIKeyPermission string

const (
	// General
	ReadAll  APIKeyPermission = "read:all"
	WriteAll APIKeyPermission = "write:all"

	// Wallets
	ReadWallets  APIKeyPermission = "read:wallets"
	WriteWallets APIKeyPermission = "write:wallets"

	// Transactions
	ReadTransactions  APIKeyPermission = "read:transactions"
	WriteTransactions APIKeyPermission = "write:transactions"

	// Users
	ReadUsers  APIKeyPermission = "read:users"
	WriteUsers APIKeyPermission = "write:users"

	// Organization
	ReadOrganization  APIKeyPermission = "read:organization"
	WriteOrganization APIKeyPermission = "write:organization"

	// Statistics
	ReadStatistics APIKeyPermission = "read:statistics"
)

// validPermissionsMap is the set of all valid permissions for the validation purposes
var validPermissionsMap = map[APIKeyPermission]struct{}{
	ReadAll:           {},
	WriteAll:          {},
	ReadWallets:       {},
	WriteWallets:      {},
	ReadTransactions:  {},
	WriteTransactions: {},
	ReadUsers:         {},
	WriteUsers:        {},
	ReadOrganization:  {},
	WriteOrganization: {},
	ReadStatistics:    {},
}

// IsWrite reports whether the permission covers a mutating operation.
func (p APIKeyPermission) IsWrite() bool {
	return strings.HasPrefix(string(p), "write:")
}

type APIKeyPermissions []APIKeyPermission

func ValidatePermissions(perms []APIKeyPermission) error {
	for _, p := range perms {
		if _, ok := validPermissionsMap[p]; !ok {
			return fmt.Errorf("invalid permission (%s)", p)
		}
	}
	return nil
}

// IPList represents a list of IPs/CIDRs
type IPList []string

func ValidateAllowedIPs(ips []string) error {
	for _, ip := range ips {
		if strings.Contains(ip, "/") {
			if _, _, err := net.ParseCIDR(ip); err != nil {
				return fmt.Errorf("invalid CIDR: %s", ip)
			}
		} else {
			if net.ParseIP(ip) == nil {
				return fmt.Errorf("invalid IP: %s", ip)
			}
		}
	}
	return nil
}

type APIKey struct {
	ID          string            `bson:"_id" json:"id"`
	Name        string            `bson:"name" json:"name"`
	KeyHash     string            `bson:"key_hash" json:"-"`
	Salt        string            `bson:"salt" json:"-"`
	ExpiryDate  *time.Time        `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	Permissions APIKeyPermissions `bson:"permissions" json:"permissions"`
	AllowedIPs  IPList            `bson:"allowed_ips" json:"allowed_ips,omitempty"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
	CreatedBy   string            `bson:"created_by" json:"created_by,omitempty"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updated_at"`
	UpdatedBy   string            `bson:"updated_by" json:"updated_by,omitempty"`
	LastUsedAt  *time.Time        `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`
	Key         string            `bson:"-" json:"key,omitempty"`
}

func (a *APIKey) HasPermission(req APIKeyPermission) bool {
	// hierarchy respect and shortcircuit if user has *:all permissions
	if strings.HasPrefix(string(req), "read:") && slices.Contains(a.Permissions, ReadAll) {
		return true
	}
	if strings.HasPrefix(string(req), "write:") && slices.Contains(a.Permissions, WriteAll) {
		return true
	}

	return slices.Contains(a.Permissions, req)
}

func (a *APIKey) IsExpired() bool {
	if a.ExpiryDate == nil {
		return false
	}
	return time.Now().UTC().After(*a.ExpiryDate)
}

// IsAllowedIP checks if an IP falls within AllowedIPs (or none means open)
func (a *APIKey) IsAllowedIP(ipStr string) bool {
	if len(a.AllowedIPs) == 0 {
		return true
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, cidr := range a.AllowedIPs {
		if strings.Contains(cidr, "/") {
			_, netw, err := net.ParseCIDR(cidr)
			if err == nil && netw.Contains(ip) {
				return true
			}
		} else if cidr == ipStr {
			return true
		}
	}
	return false
}

type APIKeyModel struct {
	mongoPool *db.MongoPool
}

func (m *APIKeyModel) collection() *mongo.Collection {
	return m.mongoPool.Collection(APIKeysCollection)
}

// Insert creates, stores, and returns a new APIKey (including the raw key once).
func (m *APIKeyModel) Insert(
	ctx context.Context,
	name string,
	permissions []APIKeyPermission,
	allowedIPs []string,
	expiry *time.Time,
	createdBy string,
) (*APIKey, error) {
	if allowedIPs == nil {
		allowedIPs = IPList{}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		saltBytes := make([]byte, APIKeySaltSize)
		if _, err := rand.Read(saltBytes); err != nil {
			return nil, fmt.Errorf("salt gen: %w", err)
		}

		salt := hex.EncodeToString(saltBytes)
		for i := range saltBytes {
			saltBytes[i] = 0
		}

		secret, err := generateSecret()
		if err != nil {
			return nil, err
		}

		// Compute hash = SHA256(salt || secret)
		h := sha256.New()
		h.Write([]byte(salt))
		h.Write([]byte(secret))
		keyHash := hex.EncodeToString(h.Sum(nil))

		now := time.Now().UTC()
		candidate := &APIKey{
			ID:          uuid.NewString(),
			Name:        name,
			KeyHash:     keyHash,
			Salt:        salt,
			ExpiryDate:  expiry,
			Permissions: APIKeyPermissions(permissions),
			AllowedIPs:  IPList(allowedIPs),
			CreatedAt:   now,
			CreatedBy:   createdBy,
			UpdatedAt:   now,
			UpdatedBy:   createdBy,
		}

		_, err = m.collection().InsertOne(ctx, candidate)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) && attempt < maxAttempts {
				// hash collision (unique violation) - retry
				continue
			}
			return nil, fmt.Errorf("insert API key: %w", err)
		}

		candidate.Key = APIKeyPrefix + secret
		return candidate, nil
	}

	return nil, fmt.Errorf("could not generate unique API key after %d attempts", maxAttempts)
}

func (m *APIKeyModel) GetAll(ctx context.Context, createdBy string) ([]*APIKey, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection().Find(ctx, bson.M{"created_by": createdBy}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("selecting api keys: %w", err)
	}
	defer cursor.Close(ctx)

	apiKeys := []*APIKey{}
	if err := cursor.All(ctx, &apiKeys); err != nil {
		return nil, fmt.Errorf("decoding api keys: %w", err)
	}
	return apiKeys, nil
}

func (m *APIKeyModel) GetByID(ctx context.Context, id, createdBy string) (*APIKey, error) {
	var key APIKey
	err := m.collection().FindOne(ctx, bson.M{"_id": id, "created_by": createdBy}).Decode(&key)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get api key by id: %w", err)
	}
	return &key, nil
}

// FindByRawKey validates a presented raw key against the stored salted hashes
// and returns the matching record. The raw key must carry the APIKeyPrefix.
func (m *APIKeyModel) FindByRawKey(ctx context.Context, rawKey string) (*APIKey, error) {
	secret, ok := strings.CutPrefix(rawKey, APIKeyPrefix)
	if !ok || secret == "" {
		return nil, ErrRecordNotFound
	}

	// The salt is per-key, so the hash cannot be computed up front; scan the
	// candidate set and compare. The collection stays small (keys per org).
	cursor, err := m.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("scanning api keys: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var key APIKey
		if err := cursor.Decode(&key); err != nil {
			return nil, fmt.Errorf("decoding api key: %w", err)
		}

		h := sha256.New()
		h.Write([]byte(key.Salt))
		h.Write([]byte(secret))
		if hex.EncodeToString(h.Sum(nil)) == key.KeyHash {
			return &key, nil
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating api keys: %w", err)
	}

	return nil, ErrRecordNotFound
}

// UpdateLastUsed stamps the key after a successful authentication.
func (m *APIKeyModel) UpdateLastUsed(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"last_used_at": time.Now().UTC()}}
	res, err := m.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("updating api key last used: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (m *APIKeyModel) Delete(ctx context.Context, id string, createdBy string) error {
	res, err := m.collection().DeleteOne(ctx, bson.M{"_id": id, "created_by": createdBy})
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func generateSecret() (string, error) {
	secBytes := make([]byte, APIKeySecretSize)
	if _, err := rand.Read(secBytes); err != nil {
		return "", fmt.Errorf("secret gen: %w", err)
	}
	defer func() {
		for i := range secBytes {
			secBytes[i] = 0
		}
	}()

	out := make([]byte, APIKeySecretSize)
	for i, b := range secBytes {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}

func ensureAPIKeyIndexes(ctx context.Context, pool *db.MongoPool) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	_, err := pool.Collection(APIKeysCollection).Indexes().CreateMany(ctx, indexes)
	return err
}
