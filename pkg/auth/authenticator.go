package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meridianpay/wallet-platform-backend/db"
	"github.com/meridianpay/wallet-platform-backend/internal/utils"
)

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrNoDocumentsAffected       = errors.New("no documents affected")
	ErrInvalidResetPasswordToken = errors.New("invalid reset password token")
	ErrUserNotFound              = errors.New("user not found")
	ErrUserEmailAlreadyExists    = errors.New("a user with this email already exists")
	ErrUserHasValidToken         = errors.New("user has a valid token")
)

const (
	usersCollectionName          = "auth_users"
	passwordResetsCollectionName = "auth_password_resets"

	resetTokenLength                 = 10
	defaultResetTokenExpirationHours = 24

	// Length of the random password generated when a user is created without one.
	generatedPasswordLength = 32
)

type Authenticator interface {
	ValidateCredentials(ctx context.Context, email, password string) (*User, error)
	CreateUser(ctx context.Context, user *User, password string) (*User, error)
	UpdateUser(ctx context.Context, ID, firstName, lastName, email, password string) error
	ActivateUser(ctx context.Context, userID string) error
	DeactivateUser(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) error
	UpdatePassword(ctx context.Context, user *User, currentPassword, newPassword string) error
	GetAllUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUsers(ctx context.Context, userIDs []string) ([]*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// userDocument is the auth_users persistence shape. Roles and the is_owner
// flag live on the same document so no joins are needed at login time.
type userDocument struct {
	ID                string    `bson:"_id"`
	FirstName         string    `bson:"first_name"`
	LastName          string    `bson:"last_name"`
	Email             string    `bson:"email"`
	PhoneNumber       string    `bson:"phone_number,omitempty"`
	EncryptedPassword string    `bson:"encrypted_password"`
	Roles             []string  `bson:"roles"`
	IsOwner           bool      `bson:"is_owner"`
	IsActive          bool      `bson:"is_active"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (d userDocument) toUser() *User {
	return &User{
		ID:          d.ID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		IsOwner:     d.IsOwner,
		IsActive:    d.IsActive,
		Roles:       d.Roles,
	}
}

type passwordResetDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Token     string    `bson:"token"`
	IsValid   bool      `bson:"is_valid"`
	CreatedAt time.Time `bson:"created_at"`
}

type defaultAuthenticator struct {
	mongoPool            *db.MongoPool
	passwordEncrypter    PasswordEncrypter
	resetTokenExpiration time.Duration
}

type defaultAuthenticatorOption func(a *defaultAuthenticator)

func newDefaultAuthenticator(options ...defaultAuthenticatorOption) *defaultAuthenticator {
	authenticator := &defaultAuthenticator{
		resetTokenExpiration: time.Hour * defaultResetTokenExpirationHours,
	}

	for _, option := range options {
		option(authenticator)
	}

	return authenticator
}

func withAuthenticatorMongoPool(mongoPool *db.MongoPool) defaultAuthenticatorOption {
	return func(a *defaultAuthenticator) {
		a.mongoPool = mongoPool
	}
}

func withPasswordEncrypter(passwordEncrypter PasswordEncrypter) defaultAuthenticatorOption {
	return func(a *defaultAuthenticator) {
		a.passwordEncrypter = passwordEncrypter
	}
}

func withResetTokenExpiration(expiration time.Duration) defaultAuthenticatorOption {
	return func(a *defaultAuthenticator) {
		if expiration > 0 {
			a.resetTokenExpiration = expiration
		}
	}
}

func (a *defaultAuthenticator) users() *mongo.Collection {
	return a.mongoPool.Collection(usersCollectionName)
}

func (a *defaultAuthenticator) passwordResets() *mongo.Collection {
	return a.mongoPool.Collection(passwordResetsCollectionName)
}

func (a *defaultAuthenticator) ValidateCredentials(ctx context.Context, email, password string) (*User, error) {
	var doc userDocument
	filter := bson.M{"email": strings.ToLower(email), "is_active": true}
	err := a.users().FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	match, err := a.passwordEncrypter.ComparePassword(ctx, doc.EncryptedPassword, password)
	if err != nil {
		return nil, fmt.Errorf("comparing password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return doc.toUser(), nil
}

// CreateUser creates a user in the document store. When password is empty a
// random one is generated, forcing the user through the reset password flow
// before the first login.
func (a *defaultAuthenticator) CreateUser(ctx context.Context, user *User, password string) (*User, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("error validating user fields: %w", err)
	}

	if password == "" {
		randomPassword, err := utils.StringWithCharset(generatedPasswordLength, utils.PasswordCharset)
		if err != nil {
			return nil, fmt.Errorf("error generating random password string in create user: %w", err)
		}
		password = randomPassword
	}

	encryptedPassword, err := a.passwordEncrypter.Encrypt(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("error encrypting password: %w", err)
	}

	now := time.Now().UTC()
	doc := userDocument{
		ID:                uuid.NewString(),
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             strings.ToLower(user.Email),
		PhoneNumber:       user.PhoneNumber,
		EncryptedPassword: encryptedPassword,
		Roles:             user.Roles,
		IsOwner:           user.IsOwner,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err = a.users().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserEmailAlreadyExists
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}

	return doc.toUser(), nil
}

func (a *defaultAuthenticator) UpdateUser(ctx context.Context, ID, firstName, lastName, email, password string) error {
	if firstName == "" && lastName == "" && email == "" && password == "" {
		return fmt.Errorf("provide at least one of these values: firstName, lastName, email or password")
	}

	fields := bson.M{"updated_at": time.Now().UTC()}

	if firstName != "" {
		fields["first_name"] = firstName
	}

	if lastName != "" {
		fields["last_name"] = lastName
	}

	if email != "" {
		if err := utils.ValidateEmail(email); err != nil {
			return fmt.Errorf("error validating email: %w", err)
		}
		fields["email"] = strings.ToLower(email)
	}

	if password != "" {
		encryptedPassword, err := a.passwordEncrypter.Encrypt(ctx, password)
		if err != nil {
			if !errors.Is(err, ErrPasswordTooShort) {
				return fmt.Errorf("error encrypting password: %w", err)
			}
			return err
		}
		fields["encrypted_password"] = encryptedPassword
	}

	res, err := a.users().UpdateOne(ctx, bson.M{"_id": ID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating user in the document store: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNoDocumentsAffected
	}

	return nil
}

func (a *defaultAuthenticator) updateIsActive(ctx context.Context, userID string, isActive bool) error {
	fields := bson.M{"is_active": isActive, "updated_at": time.Now().UTC()}
	res, err := a.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("error updating is_active for user ID %s: %w", userID, err)
	}

	if res.MatchedCount == 0 {
		return ErrNoDocumentsAffected
	}

	return nil
}

func (a *defaultAuthenticator) ActivateUser(ctx context.Context, userID string) error {
	if err := a.updateIsActive(ctx, userID, true); err != nil {
		return fmt.Errorf("error activating user ID %s: %w", userID, err)
	}
	return nil
}

func (a *defaultAuthenticator) DeactivateUser(ctx context.Context, userID string) error {
	if err := a.updateIsActive(ctx, userID, false); err != nil {
		return fmt.Errorf("error deactivating user ID %s: %w", userID, err)
	}
	return nil
}

// ForgotPassword generates a password reset token for the user. Only one
// valid token per user may exist at a time.
func (a *defaultAuthenticator) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("error generating user reset password token: email cannot be empty")
	}

	user, err := a.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	validAfter := time.Now().UTC().Add(-a.resetTokenExpiration)
	count, err := a.passwordResets().CountDocuments(ctx, bson.M{
		"user_id":    user.ID,
		"is_valid":   true,
		"created_at": bson.M{"$gte": validAfter},
	})
	if err != nil {
		return "", fmt.Errorf("error checking if user has valid token: %w", err)
	}
	if count > 0 {
		return "", ErrUserHasValidToken
	}

	resetToken, err := utils.StringWithCharset(resetTokenLength, utils.DefaultCharset)
	if err != nil {
		return "", fmt.Errorf("error generating random reset token in forgot password: %w", err)
	}

	doc := passwordResetDocument{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     resetToken,
		IsValid:   true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err = a.passwordResets().InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("error inserting user reset password token in the document store: %w", err)
	}

	return resetToken, nil
}

func (a *defaultAuthenticator) ResetPassword(ctx context.Context, resetToken, password string) error {
	validAfter := time.Now().UTC().Add(-a.resetTokenExpiration)

	var doc passwordResetDocument
	err := a.passwordResets().FindOne(ctx, bson.M{
		"token":      resetToken,
		"is_valid":   true,
		"created_at": bson.M{"$gte": validAfter},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidResetPasswordToken
		}
		return fmt.Errorf("error querying reset password token: %w", err)
	}

	encryptedPassword, err := a.passwordEncrypter.Encrypt(ctx, password)
	if err != nil {
		return fmt.Errorf("error encrypting password: %w", err)
	}

	res, err := a.users().UpdateOne(ctx,
		bson.M{"_id": doc.UserID},
		bson.M{"$set": bson.M{"encrypted_password": encryptedPassword, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("error updating user password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocumentsAffected
	}

	_, err = a.passwordResets().UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{"is_valid": false}},
	)
	if err != nil {
		return fmt.Errorf("error invalidating reset password token: %w", err)
	}

	return nil
}

func (a *defaultAuthenticator) UpdatePassword(ctx context.Context, user *User, currentPassword, newPassword string) error {
	var doc userDocument
	err := a.users().FindOne(ctx, bson.M{"_id": user.ID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return fmt.Errorf("querying user: %w", err)
	}

	match, err := a.passwordEncrypter.ComparePassword(ctx, doc.EncryptedPassword, currentPassword)
	if err != nil {
		return fmt.Errorf("comparing password: %w", err)
	}
	if !match {
		return ErrInvalidCredentials
	}

	encryptedPassword, err := a.passwordEncrypter.Encrypt(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("error encrypting password: %w", err)
	}

	res, err := a.users().UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"encrypted_password": encryptedPassword, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("error updating user password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocumentsAffected
	}

	return nil
}

func (a *defaultAuthenticator) GetAllUsers(ctx context.Context) ([]User, error) {
	cursor, err := a.users().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error querying all users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []User{}
	for cursor.Next(ctx) {
		var doc userDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding user: %w", err)
		}
		users = append(users, *doc.toUser())
	}
	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (a *defaultAuthenticator) GetUser(ctx context.Context, userID string) (*User, error) {
	var doc userDocument
	err := a.users().FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user ID %s: %w", userID, err)
	}

	return doc.toUser(), nil
}

func (a *defaultAuthenticator) GetUsers(ctx context.Context, userIDs []string) ([]*User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	cursor, err := a.users().Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("error querying users by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*User{}
	for cursor.Next(ctx) {
		var doc userDocument
		if err = cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding user: %w", err)
		}
		users = append(users, doc.toUser())
	}
	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (a *defaultAuthenticator) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var doc userDocument
	err := a.users().FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user with email %s: %w", email, err)
	}

	return doc.toUser(), nil
}

var _ Authenticator = (*defaultAuthenticator)(nil)
