package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func Test_defaultPasswordEncrypter_Encrypt(t *testing.T) {
	ctx := context.Background()
	encrypter := NewDefaultPasswordEncrypter()

	t.Run("returns an error when the password is too short", func(t *testing.T) {
		encryptedPassword, err := encrypter.Encrypt(ctx, "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, encryptedPassword)
	})

	t.Run("encrypts the password successfully", func(t *testing.T) {
		password := "mysecret!password"
		encryptedPassword, err := encrypter.Encrypt(ctx, password)
		require.NoError(t, err)
		assert.NotEqual(t, password, encryptedPassword)

		err = bcrypt.CompareHashAndPassword([]byte(encryptedPassword), []byte(password))
		assert.NoError(t, err)
	})
}

func Test_defaultPasswordEncrypter_ComparePassword(t *testing.T) {
	ctx := context.Background()
	encrypter := NewDefaultPasswordEncrypter()

	encryptedPassword, err := encrypter.Encrypt(ctx, "mysecret!password")
	require.NoError(t, err)

	t.Run("returns true when the password matches", func(t *testing.T) {
		match, err := encrypter.ComparePassword(ctx, encryptedPassword, "mysecret!password")
		require.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("returns false when the password does not match", func(t *testing.T) {
		match, err := encrypter.ComparePassword(ctx, encryptedPassword, "wrongpassword")
		require.NoError(t, err)
		assert.False(t, match)
	})
}
