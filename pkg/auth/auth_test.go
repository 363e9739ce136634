package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthManager(authenticator Authenticator, jwtManager JWTManager, roleManager RoleManager, otpManager OTPManager) *defaultAuthManager {
	return &defaultAuthManager{
		expirationTimeInMinutes: time.Minute * defaultExpirationTimeInMinutes,
		authenticator:           authenticator,
		jwtManager:              jwtManager,
		roleManager:             roleManager,
		otpManager:              otpManager,
	}
}

func Test_defaultAuthManager_Authenticate(t *testing.T) {
	ctx := context.Background()
	user := &User{ID: "user-id", Email: "email@email.com"}

	t.Run("returns an error when the credentials are invalid", func(t *testing.T) {
		authenticatorMock := &AuthenticatorMock{}
		authenticatorMock.
			On("ValidateCredentials", ctx, "email@email.com", "wrong").
			Return(nil, ErrInvalidCredentials).
			Once()

		authManager := newTestAuthManager(authenticatorMock, nil, nil, nil)

		token, err := authManager.Authenticate(ctx, "email@email.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
		authenticatorMock.AssertExpectations(t)
	})

	t.Run("returns a token with the user roles embedded", func(t *testing.T) {
		authenticatorMock := &AuthenticatorMock{}
		authenticatorMock.
			On("ValidateCredentials", ctx, "email@email.com", "pass123").
			Return(user, nil).
			Once()

		roleManagerMock := &RoleManagerMock{}
		roleManagerMock.
			On("GetUserRoles", ctx, user).
			Return([]string{"admin"}, nil).
			Once()

		jwtManagerMock := &JWTManagerMock{}
		jwtManagerMock.
			On("GenerateToken", ctx, user, mock.AnythingOfType("time.Time")).
			Return("mytoken", nil).
			Once()

		authManager := newTestAuthManager(authenticatorMock, jwtManagerMock, roleManagerMock, nil)

		token, err := authManager.Authenticate(ctx, "email@email.com", "pass123")
		require.NoError(t, err)
		assert.Equal(t, "mytoken", token)
		assert.Equal(t, []string{"admin"}, user.Roles)

		authenticatorMock.AssertExpectations(t)
		roleManagerMock.AssertExpectations(t)
		jwtManagerMock.AssertExpectations(t)
	})
}

func Test_defaultAuthManager_AllRolesInTokenUser(t *testing.T) {
	ctx := context.Background()
	user := &User{ID: "user-id", Roles: []string{"admin"}}

	t.Run("returns ErrInvalidToken when the token is invalid", func(t *testing.T) {
		jwtManagerMock := &JWTManagerMock{}
		jwtManagerMock.On("ValidateToken", ctx, "badtoken").Return(false, nil).Once()

		authManager := newTestAuthManager(nil, jwtManagerMock, nil, nil)

		_, err := authManager.AllRolesInTokenUser(ctx, "badtoken", []string{"admin"})
		assert.ErrorIs(t, err, ErrInvalidToken)
		jwtManagerMock.AssertExpectations(t)
	})

	t.Run("delegates the role check to the role manager", func(t *testing.T) {
		jwtManagerMock := &JWTManagerMock{}
		jwtManagerMock.On("ValidateToken", ctx, "mytoken").Return(true, nil).Once()
		jwtManagerMock.On("GetUserFromToken", ctx, "mytoken").Return(user, nil).Once()

		roleManagerMock := &RoleManagerMock{}
		roleManagerMock.On("HasAllRoles", ctx, user, []string{"admin"}).Return(true, nil).Once()

		authManager := newTestAuthManager(nil, jwtManagerMock, roleManagerMock, nil)

		hasRoles, err := authManager.AllRolesInTokenUser(ctx, "mytoken", []string{"admin"})
		require.NoError(t, err)
		assert.True(t, hasRoles)

		jwtManagerMock.AssertExpectations(t)
		roleManagerMock.AssertExpectations(t)
	})
}

func Test_defaultAuthManager_AuthenticateOTP(t *testing.T) {
	ctx := context.Background()
	user := &User{ID: "user-id", Email: "email@email.com"}

	t.Run("returns an error when the code is invalid", func(t *testing.T) {
		otpManagerMock := &OTPManagerMock{}
		otpManagerMock.
			On("ValidateOTPCode", ctx, "device-id", "000000").
			Return("", ErrOTPCodeInvalid).
			Once()

		authManager := newTestAuthManager(nil, nil, nil, otpManagerMock)

		token, err := authManager.AuthenticateOTP(ctx, "device-id", "000000", false)
		assert.ErrorIs(t, err, ErrOTPCodeInvalid)
		assert.Empty(t, token)
		otpManagerMock.AssertExpectations(t)
	})

	t.Run("remembers the device and returns a token", func(t *testing.T) {
		otpManagerMock := &OTPManagerMock{}
		otpManagerMock.On("RememberDevice", ctx, "device-id", "123456").Return(nil).Once()
		otpManagerMock.On("ValidateOTPCode", ctx, "device-id", "123456").Return("user-id", nil).Once()

		authenticatorMock := &AuthenticatorMock{}
		authenticatorMock.On("GetUser", ctx, "user-id").Return(user, nil).Once()

		roleManagerMock := &RoleManagerMock{}
		roleManagerMock.On("GetUserRoles", ctx, user).Return([]string{"viewer"}, nil).Once()

		jwtManagerMock := &JWTManagerMock{}
		jwtManagerMock.
			On("GenerateToken", ctx, user, mock.AnythingOfType("time.Time")).
			Return("mytoken", nil).
			Once()

		authManager := newTestAuthManager(authenticatorMock, jwtManagerMock, roleManagerMock, otpManagerMock)

		token, err := authManager.AuthenticateOTP(ctx, "device-id", "123456", true)
		require.NoError(t, err)
		assert.Equal(t, "mytoken", token)

		otpManagerMock.AssertExpectations(t)
		authenticatorMock.AssertExpectations(t)
		roleManagerMock.AssertExpectations(t)
		jwtManagerMock.AssertExpectations(t)
	})
}

func Test_defaultAuthManager_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ErrInvalidToken when the token is invalid", func(t *testing.T) {
		jwtManagerMock := &JWTManagerMock{}
		jwtManagerMock.On("ValidateToken", ctx, "badtoken").Return(false, nil).Once()

		authManager := newTestAuthManager(nil, jwtManagerMock, nil, nil)

		_, err := authManager.RefreshToken(ctx, "badtoken")
		assert.ErrorIs(t, err, ErrInvalidToken)
		jwtManagerMock.AssertExpectations(t)
	})

	t.Run("propagates unexpected errors", func(t *testing.T) {
		jwtManagerMock := &JWTManagerMock{}
		jwtManagerMock.On("ValidateToken", ctx, "mytoken").Return(false, errors.New("boom")).Once()

		authManager := newTestAuthManager(nil, jwtManagerMock, nil, nil)

		_, err := authManager.RefreshToken(ctx, "mytoken")
		assert.ErrorContains(t, err, "boom")
		jwtManagerMock.AssertExpectations(t)
	})
}

func Test_NewAuthManager_options(t *testing.T) {
	jwtManagerMock := &JWTManagerMock{}
	authManager := NewAuthManager(
		WithCustomJWTManagerOption(jwtManagerMock),
		WithExpirationTimeInMinutesOption(30),
	)

	assert.Equal(t, time.Minute*30, authManager.ExpirationTimeInMinutes())
}
