package graphql

import (
	"context"
	"errors"

	"github.com/meridianpay/wallet-platform-backend/internal/crashtracker"
	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/message"
	"github.com/meridianpay/wallet-platform-backend/internal/serve/middleware"
	"github.com/meridianpay/wallet-platform-backend/internal/services"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

var (
	errNotAuthorized       = errors.New("not authorized")
	errPermissionDenied    = errors.New("you don't have permission to perform this action")
	errInternal            = errors.New("an internal error occurred while processing this request")
	errInvalidCredentials  = errors.New("the email or password you entered is incorrect")
	errInvalidOTP          = errors.New("the verification code is invalid or has expired")
	errSessionAuthRequired = errors.New("this operation requires a user session, not an API key")
	errWalletNotFound      = errors.New("wallet not found")
	errDeviceIDRequired    = errors.New("deviceId is required")
)

const (
	forgotPasswordSafeReply = "if the email you provided is associated with an account, you will receive a password reset message"
	otpSentReply            = "a verification code was sent to your registered contact"
	defaultOrganizationName = "MeridianPay"
	resetPasswordLinkPath   = "/reset-password"
)

// Resolver carries the dependencies the query and mutation resolvers need.
type Resolver struct {
	AuthManager       auth.AuthManager
	Models            *data.Models
	WalletService     *services.WalletService
	BalanceService    *services.BalanceService
	RateService       *services.RateService
	MessageDispatcher message.MessageDispatcherInterface
	CrashTracker      crashtracker.CrashTrackerClient

	// OTPEnabled gates the second login factor. When set, logins must carry a
	// deviceId and unrecognized devices are challenged with a one-time code.
	OTPEnabled bool

	// BaseURL is the dashboard base used when building links embedded in
	// outgoing emails.
	BaseURL          string
	OrganizationName string
}

func (r *Resolver) organizationName() string {
	if r.OrganizationName != "" {
		return r.OrganizationName
	}
	return defaultOrganizationName
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(middleware.TokenContextKey).(string)
	return token, ok && token != ""
}

func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(middleware.UserIDContextKey).(string)
	return userID, ok && userID != ""
}

func apiKeyFromContext(ctx context.Context) (*data.APIKey, bool) {
	apiKey, ok := ctx.Value(middleware.APIKeyContextKey).(*data.APIKey)
	return apiKey, ok && apiKey != nil
}

// requireUserID resolves the caller's user ID, set by the auth middleware from
// either a JWT or an API key.
func (r *Resolver) requireUserID(ctx context.Context) (string, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return "", errNotAuthorized
	}
	return userID, nil
}

// requireToken resolves the caller's JWT. Operations that manage credentials
// or other users refuse API-key callers.
func (r *Resolver) requireToken(ctx context.Context) (string, error) {
	if _, ok := apiKeyFromContext(ctx); ok {
		return "", errSessionAuthRequired
	}
	token, ok := tokenFromContext(ctx)
	if !ok {
		return "", errNotAuthorized
	}
	return token, nil
}

// requirePermission enforces the permission for the operation class. API-key
// callers need the matching key permission; JWT callers need a role allowed to
// perform writes when the permission is a write one.
func (r *Resolver) requirePermission(ctx context.Context, perm data.APIKeyPermission) (string, error) {
	userID, err := r.requireUserID(ctx)
	if err != nil {
		return "", err
	}

	if apiKey, ok := apiKeyFromContext(ctx); ok {
		if !apiKey.HasPermission(perm) {
			return "", errPermissionDenied
		}
		return userID, nil
	}

	if perm.IsWrite() {
		if _, err = r.requireAnyRole(ctx, data.OwnerUserRole, data.AdminUserRole, data.DeveloperUserRole); err != nil {
			return "", err
		}
	}

	return userID, nil
}

// requireAnyRole enforces that the caller's JWT carries at least one of the
// given roles.
func (r *Resolver) requireAnyRole(ctx context.Context, roles ...data.UserRole) (string, error) {
	token, err := r.requireToken(ctx)
	if err != nil {
		return "", err
	}

	hasRole, err := r.AuthManager.AnyRolesInTokenUser(ctx, token, data.FromUserRoleArrayToStringArray(roles))
	if err != nil {
		return "", r.internalError(ctx, "checking user roles", err)
	}
	if !hasRole {
		return "", errPermissionDenied
	}

	return token, nil
}

// internalError reports the original error and returns a safe message for the
// GraphQL response.
func (r *Resolver) internalError(ctx context.Context, msg string, err error) error {
	if r.CrashTracker != nil {
		r.CrashTracker.LogAndReportErrors(ctx, err, msg)
	}
	return errInternal
}
