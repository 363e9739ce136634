package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateECKeypair(t *testing.T) (publicKeyPEM, privateKeyPEM string) {
	t.Helper()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	privateKeyDER, err := x509.MarshalECPrivateKey(privateKey)
	require.NoError(t, err)
	privateKeyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privateKeyDER}))

	publicKeyDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	publicKeyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicKeyDER}))

	return publicKeyPEM, privateKeyPEM
}

func Test_defaultJWTManager_GenerateToken(t *testing.T) {
	ctx := context.Background()
	publicKeyPEM, privateKeyPEM := generateECKeypair(t)
	jwtManager := newDefaultJWTManager(withECKeypair(publicKeyPEM, privateKeyPEM))

	user := &User{
		ID:    "user-id",
		Email: "email@email.com",
		Roles: []string{"admin"},
	}

	t.Run("returns an error when the private key is unparsable", func(t *testing.T) {
		badManager := newDefaultJWTManager(withECKeypair(publicKeyPEM, "not a key"))
		token, err := badManager.GenerateToken(ctx, user, time.Now().Add(time.Minute))
		assert.ErrorIs(t, err, ErrUnparsableSigningKey)
		assert.Empty(t, token)
	})

	t.Run("generates a valid token with the user embedded", func(t *testing.T) {
		token, err := jwtManager.GenerateToken(ctx, user, time.Now().Add(time.Minute*5))
		require.NoError(t, err)
		require.NotEmpty(t, token)

		isValid, err := jwtManager.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.True(t, isValid)

		tokenUser, err := jwtManager.GetUserFromToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, tokenUser.ID)
		assert.Equal(t, user.Email, tokenUser.Email)
		assert.Equal(t, user.Roles, tokenUser.Roles)
	})
}

func Test_defaultJWTManager_ValidateToken(t *testing.T) {
	ctx := context.Background()
	publicKeyPEM, privateKeyPEM := generateECKeypair(t)
	jwtManager := newDefaultJWTManager(withECKeypair(publicKeyPEM, privateKeyPEM))

	user := &User{ID: "user-id", Email: "email@email.com"}

	t.Run("returns false for an expired token", func(t *testing.T) {
		token, err := jwtManager.GenerateToken(ctx, user, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		isValid, err := jwtManager.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.False(t, isValid)
	})

	t.Run("returns false for a token signed by another key", func(t *testing.T) {
		otherPublicKeyPEM, otherPrivateKeyPEM := generateECKeypair(t)
		otherManager := newDefaultJWTManager(withECKeypair(otherPublicKeyPEM, otherPrivateKeyPEM))

		token, err := otherManager.GenerateToken(ctx, user, time.Now().Add(time.Minute))
		require.NoError(t, err)

		isValid, err := jwtManager.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.False(t, isValid)
	})

	t.Run("returns false for garbage", func(t *testing.T) {
		isValid, err := jwtManager.ValidateToken(ctx, "not.a.token")
		require.NoError(t, err)
		assert.False(t, isValid)
	})
}

func Test_defaultJWTManager_RefreshToken(t *testing.T) {
	ctx := context.Background()
	publicKeyPEM, privateKeyPEM := generateECKeypair(t)
	jwtManager := newDefaultJWTManager(withECKeypair(publicKeyPEM, privateKeyPEM))

	user := &User{ID: "user-id", Email: "email@email.com"}

	t.Run("returns the same token when far from expiring", func(t *testing.T) {
		token, err := jwtManager.GenerateToken(ctx, user, time.Now().Add(time.Minute*10))
		require.NoError(t, err)

		refreshedToken, err := jwtManager.RefreshToken(ctx, token, time.Now().Add(time.Minute*15))
		require.NoError(t, err)
		assert.Equal(t, token, refreshedToken)
	})

	t.Run("returns a new token when close to expiring", func(t *testing.T) {
		token, err := jwtManager.GenerateToken(ctx, user, time.Now().Add(time.Minute))
		require.NoError(t, err)

		refreshedToken, err := jwtManager.RefreshToken(ctx, token, time.Now().Add(time.Minute*15))
		require.NoError(t, err)
		assert.NotEqual(t, token, refreshedToken)

		isValid, err := jwtManager.ValidateToken(ctx, refreshedToken)
		require.NoError(t, err)
		assert.True(t, isValid)
	})

	t.Run("returns an error for an expired token", func(t *testing.T) {
		token, err := jwtManager.GenerateToken(ctx, user, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, err = jwtManager.RefreshToken(ctx, token, time.Now().Add(time.Minute*15))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
