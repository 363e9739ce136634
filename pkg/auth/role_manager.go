package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/meridianpay/wallet-platform-backend/db"
)

const defaultOwnerRoleName = "owner"

type RoleManager interface {
	GetUserRoles(ctx context.Context, user *User) ([]string, error)
	HasAllRoles(ctx context.Context, user *User, roleNames []string) (bool, error)
	HasAnyRoles(ctx context.Context, user *User, roleNames []string) (bool, error)
	IsSuperUser(ctx context.Context, user *User) (bool, error)
	UpdateRoles(ctx context.Context, user *User, roleNames []string) error
}

type defaultRoleManager struct {
	mongoPool     *db.MongoPool
	ownerRoleName string
}

type defaultRoleManagerOption func(m *defaultRoleManager)

func newDefaultRoleManager(options ...defaultRoleManagerOption) *defaultRoleManager {
	roleManager := &defaultRoleManager{
		ownerRoleName: defaultOwnerRoleName,
	}

	for _, option := range options {
		option(roleManager)
	}

	return roleManager
}

func withRoleManagerMongoPool(mongoPool *db.MongoPool) defaultRoleManagerOption {
	return func(m *defaultRoleManager) {
		m.mongoPool = mongoPool
	}
}

func withOwnerRoleName(ownerRoleName string) defaultRoleManagerOption {
	return func(m *defaultRoleManager) {
		m.ownerRoleName = ownerRoleName
	}
}

func (m *defaultRoleManager) getUserDocument(ctx context.Context, userID string) (*userDocument, error) {
	var doc userDocument
	err := m.mongoPool.Collection(usersCollectionName).FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user ID %s: %w", userID, err)
	}
	return &doc, nil
}

// GetUserRoles returns the roles stored for the user. Owners carry every
// permission so the owner role name is returned alone.
func (m *defaultRoleManager) GetUserRoles(ctx context.Context, user *User) ([]string, error) {
	doc, err := m.getUserDocument(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("getting user roles: %w", err)
	}

	if doc.IsOwner {
		return []string{m.ownerRoleName}, nil
	}

	return doc.Roles, nil
}

func (m *defaultRoleManager) HasAllRoles(ctx context.Context, user *User, roleNames []string) (bool, error) {
	userRoles, err := m.GetUserRoles(ctx, user)
	if err != nil {
		return false, err
	}

	userRolesMap := make(map[string]struct{}, len(userRoles))
	for _, role := range userRoles {
		userRolesMap[role] = struct{}{}
	}

	for _, roleName := range roleNames {
		if _, ok := userRolesMap[roleName]; !ok {
			return false, nil
		}
	}

	return true, nil
}

func (m *defaultRoleManager) HasAnyRoles(ctx context.Context, user *User, roleNames []string) (bool, error) {
	userRoles, err := m.GetUserRoles(ctx, user)
	if err != nil {
		return false, err
	}

	userRolesMap := make(map[string]struct{}, len(userRoles))
	for _, role := range userRoles {
		userRolesMap[role] = struct{}{}
	}

	for _, roleName := range roleNames {
		if _, ok := userRolesMap[roleName]; ok {
			return true, nil
		}
	}

	return false, nil
}

func (m *defaultRoleManager) IsSuperUser(ctx context.Context, user *User) (bool, error) {
	doc, err := m.getUserDocument(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("checking super user: %w", err)
	}

	return doc.IsOwner, nil
}

func (m *defaultRoleManager) UpdateRoles(ctx context.Context, user *User, roleNames []string) error {
	res, err := m.mongoPool.Collection(usersCollectionName).UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"roles": roleNames, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("updating roles for user ID %s: %w", user.ID, err)
	}

	if res.MatchedCount == 0 {
		return ErrNoDocumentsAffected
	}

	return nil
}

var _ RoleManager = (*defaultRoleManager)(nil)
