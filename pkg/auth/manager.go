package auth

import (
	"fmt"
	"time"

	"github.com/meridianpay/wallet-platform-backend/db"
	"github.com/meridianpay/wallet-platform-backend/internal/utils"
)

const defaultExpirationTimeInMinutes = 15

type User struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	IsOwner     bool     `json:"-"`
	IsActive    bool     `json:"is_active"`
	Roles       []string `json:"roles"`
}

func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	} else if err := utils.ValidateEmail(u.Email); err != nil {
		return fmt.Errorf("email is invalid: %w", err)
	}

	if u.FirstName == "" {
		return fmt.Errorf("first name is required")
	}

	if u.LastName == "" {
		return fmt.Errorf("last name is required")
	}

	if u.PhoneNumber != "" {
		if err := utils.ValidatePhoneNumber(u.PhoneNumber); err != nil {
			return fmt.Errorf("phone number is invalid: %w", err)
		}
	}

	return nil
}

// defaultAuthManager manages JWT generation, validation and refresh. Use
// NewAuthManager to construct one.
type defaultAuthManager struct {
	expirationTimeInMinutes time.Duration
	authenticator           Authenticator
	jwtManager              JWTManager
	roleManager             RoleManager
	otpManager              OTPManager
}

type AuthManagerOption func(am *defaultAuthManager)

// NewAuthManager constructs an AuthManager and applies the options passed by parameter.
func NewAuthManager(options ...AuthManagerOption) AuthManager {
	authManager := &defaultAuthManager{
		expirationTimeInMinutes: time.Minute * defaultExpirationTimeInMinutes,
	}

	for _, option := range options {
		option(authManager)
	}

	return authManager
}

// WithDefaultAuthenticatorOption sets the default authentication method that
// validates the users' credentials against the document store.
func WithDefaultAuthenticatorOption(mongoPool *db.MongoPool, passwordEncrypter PasswordEncrypter, resetTokenExpiration time.Duration) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.authenticator = newDefaultAuthenticator(
			withAuthenticatorMongoPool(mongoPool),
			withPasswordEncrypter(passwordEncrypter),
			withResetTokenExpiration(resetTokenExpiration),
		)
	}
}

// WithCustomAuthenticatorOption sets a custom authentication method that implements the Authenticator interface.
func WithCustomAuthenticatorOption(authenticator Authenticator) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.authenticator = authenticator
	}
}

// WithDefaultJWTManagerOption sets the default JWT Manager that generates, validates and refreshes the users' JWT token.
func WithDefaultJWTManagerOption(ecPublicKey, ecPrivateKey string) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.jwtManager = newDefaultJWTManager(withECKeypair(ecPublicKey, ecPrivateKey))
	}
}

// WithCustomJWTManagerOption sets a custom JWT Manager that implements the JWTManager interface.
func WithCustomJWTManagerOption(jwtManager JWTManager) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.jwtManager = jwtManager
	}
}

// WithExpirationTimeInMinutesOption sets the JWT token expiration time in minutes. Default is 15 minutes.
func WithExpirationTimeInMinutesOption(minutes int) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.expirationTimeInMinutes = time.Minute * time.Duration(minutes)
	}
}

func WithDefaultRoleManagerOption(mongoPool *db.MongoPool, ownerRoleName string) AuthManagerOption {
	return func(am *defaultAuthManager) {
		roleOptions := []defaultRoleManagerOption{
			withRoleManagerMongoPool(mongoPool),
		}

		if ownerRoleName != "" {
			roleOptions = append(roleOptions, withOwnerRoleName(ownerRoleName))
		}

		am.roleManager = newDefaultRoleManager(roleOptions...)
	}
}

func WithCustomRoleManagerOption(roleManager RoleManager) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.roleManager = roleManager
	}
}

func WithDefaultOTPManagerOption(mongoPool *db.MongoPool) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.otpManager = newDefaultOTPManager(withOTPManagerMongoPool(mongoPool))
	}
}

func WithCustomOTPManagerOption(otpManager OTPManager) AuthManagerOption {
	return func(am *defaultAuthManager) {
		am.otpManager = otpManager
	}
}
