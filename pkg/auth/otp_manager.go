package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meridianpay/wallet-platform-backend/db"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/utils"
)

type OTPManager interface {
	OTPDeviceRemembered(ctx context.Context, deviceID, userID string) (bool, error)
	GenerateOTPCode(ctx context.Context, deviceID, userID string) (string, error)
	ValidateOTPCode(ctx context.Context, deviceID, code string) (string, error)
	RememberDevice(ctx context.Context, deviceID, code string) error
}

const (
	otpCodesCollectionName = "auth_otp_codes"

	otpCodeLength   = 6
	otpDeviceExpiry = time.Hour * 24 * 7 // 7 days
	otpCodeExpiry   = time.Minute * 5    // 5 minutes
)

var (
	ErrOTPCodeInvalid         = errors.New("OTP code is invalid")
	ErrOTPNoCodeForUserDevice = errors.New("no OTP code for user and device")
)

// otpCodeDocument keys on the device ID, so each device holds at most one
// outstanding code.
type otpCodeDocument struct {
	DeviceID        string     `bson:"_id"`
	UserID          string     `bson:"user_id"`
	Code            string     `bson:"code,omitempty"`
	DeviceExpiresAt *time.Time `bson:"device_expires_at,omitempty"`
	CodeExpiresAt   *time.Time `bson:"code_expires_at,omitempty"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

type defaultOTPManager struct {
	mongoPool *db.MongoPool
}

type defaultOTPManagerOption func(m *defaultOTPManager)

func newDefaultOTPManager(options ...defaultOTPManagerOption) *defaultOTPManager {
	otpManager := &defaultOTPManager{}
	for _, option := range options {
		option(otpManager)
	}
	return otpManager
}

func withOTPManagerMongoPool(mongoPool *db.MongoPool) defaultOTPManagerOption {
	return func(m *defaultOTPManager) {
		m.mongoPool = mongoPool
	}
}

func (m *defaultOTPManager) codes() *mongo.Collection {
	return m.mongoPool.Collection(otpCodesCollectionName)
}

// OTPDeviceRemembered checks if the device is remembered for the user.
func (m *defaultOTPManager) OTPDeviceRemembered(ctx context.Context, deviceID, userID string) (bool, error) {
	doc, err := m.getByDeviceAndUser(ctx, deviceID, userID)
	if err != nil {
		if errors.Is(err, ErrOTPNoCodeForUserDevice) {
			return false, nil
		}
		return false, fmt.Errorf("error validating OTP device for user ID %s and device ID %s: %w", userID, deviceID, err)
	}

	if doc.DeviceExpiresAt == nil || doc.DeviceExpiresAt.Before(time.Now()) {
		return false, nil
	}

	return true, nil
}

// GenerateOTPCode generates a new OTP code for the user and device. A still
// valid code is explicitly expired before a new one is issued.
func (m *defaultOTPManager) GenerateOTPCode(ctx context.Context, deviceID, userID string) (string, error) {
	doc, err := m.getByDeviceAndUser(ctx, deviceID, userID)
	if err != nil && !errors.Is(err, ErrOTPNoCodeForUserDevice) {
		return "", fmt.Errorf("error validating OTP device for user ID %s and device ID %s: %w", userID, deviceID, err)
	}

	if doc != nil && doc.Code != "" && doc.CodeExpiresAt != nil && doc.CodeExpiresAt.After(time.Now()) {
		logging.L(ctx).Infof("expiring a valid OTP code for device ID %s and user ID %s", deviceID, userID)
		if err = m.expireOTPCode(ctx, deviceID, doc.Code); err != nil {
			return "", fmt.Errorf("expiring OTP code for device ID %s: %w", deviceID, err)
		}
	}

	return m.generateAndUpdateOTPCode(ctx, deviceID, userID)
}

// ValidateOTPCode checks if the OTP code is valid for the device ID and returns the user ID.
func (m *defaultOTPManager) ValidateOTPCode(ctx context.Context, deviceID, code string) (string, error) {
	doc, err := m.getByDeviceAndCode(ctx, deviceID, code)
	if err != nil {
		if errors.Is(err, ErrOTPNoCodeForUserDevice) {
			return "", ErrOTPCodeInvalid
		}
		return "", fmt.Errorf("error validating OTP code for device ID %s: %w", deviceID, err)
	}

	if doc.Code == code && doc.CodeExpiresAt != nil && doc.CodeExpiresAt.After(time.Now()) {
		if err = m.expireOTPCode(ctx, deviceID, code); err != nil {
			return "", fmt.Errorf("error expiring OTP code for device ID %s: %w", deviceID, err)
		}
		return doc.UserID, nil
	}

	return "", ErrOTPCodeInvalid
}

// RememberDevice extends the device expiration so subsequent logins from the
// same device skip the OTP challenge.
func (m *defaultOTPManager) RememberDevice(ctx context.Context, deviceID, code string) error {
	deviceExpiresAt := time.Now().Add(otpDeviceExpiry)
	res, err := m.codes().UpdateOne(ctx,
		bson.M{"_id": deviceID, "code": code},
		bson.M{"$set": bson.M{"device_expires_at": deviceExpiresAt, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("error remembering device ID %s: %w", deviceID, err)
	}

	if res.MatchedCount == 0 {
		return ErrOTPCodeInvalid
	}

	return nil
}

func (m *defaultOTPManager) generateAndUpdateOTPCode(ctx context.Context, deviceID, userID string) (string, error) {
	code, err := utils.RandomNumericCode(otpCodeLength)
	if err != nil {
		return "", fmt.Errorf("error generating OTP code: %w", err)
	}

	codeExpiresAt := time.Now().Add(otpCodeExpiry)
	_, err = m.codes().UpdateOne(ctx,
		bson.M{"_id": deviceID},
		bson.M{"$set": bson.M{
			"user_id":         userID,
			"code":            code,
			"code_expires_at": codeExpiresAt,
			"updated_at":      time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", fmt.Errorf("error upserting OTP code for device ID %s: %w", deviceID, err)
	}

	return code, nil
}

func (m *defaultOTPManager) expireOTPCode(ctx context.Context, deviceID, code string) error {
	_, err := m.codes().UpdateOne(ctx,
		bson.M{"_id": deviceID, "code": code},
		bson.M{
			"$unset": bson.M{"code": "", "code_expires_at": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("error expiring OTP code: %w", err)
	}
	return nil
}

func (m *defaultOTPManager) getByDeviceAndUser(ctx context.Context, deviceID, userID string) (*otpCodeDocument, error) {
	var doc otpCodeDocument
	err := m.codes().FindOne(ctx, bson.M{"_id": deviceID, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOTPNoCodeForUserDevice
		}
		return nil, fmt.Errorf("querying OTP code: %w", err)
	}
	return &doc, nil
}

func (m *defaultOTPManager) getByDeviceAndCode(ctx context.Context, deviceID, code string) (*otpCodeDocument, error) {
	var doc otpCodeDocument
	err := m.codes().FindOne(ctx, bson.M{"_id": deviceID, "code": code}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOTPNoCodeForUserDevice
		}
		return nil, fmt.Errorf("querying OTP code: %w", err)
	}
	return &doc, nil
}

var _ OTPManager = (*defaultOTPManager)(nil)
