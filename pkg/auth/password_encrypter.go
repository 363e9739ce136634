package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum number of characters a user password must have.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort = fmt.Errorf("password should have at least %d characters", MinPasswordLength)
	ErrUnexpectedError  = errors.New("unexpected error")
)

type PasswordEncrypter interface {
	Encrypt(ctx context.Context, password string) (string, error)
	ComparePassword(ctx context.Context, encryptedPassword, password string) (bool, error)
}

type defaultPasswordEncrypter struct{}

func (e *defaultPasswordEncrypter) Encrypt(ctx context.Context, password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	encryptedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: encrypting password: %s", ErrUnexpectedError, err)
	}

	return string(encryptedPassword), nil
}

func (e *defaultPasswordEncrypter) ComparePassword(ctx context.Context, encryptedPassword, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encryptedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: comparing password: %s", ErrUnexpectedError, err)
	}

	return true, nil
}

func NewDefaultPasswordEncrypter() PasswordEncrypter {
	return &defaultPasswordEncrypter{}
}

var _ PasswordEncrypter = (*defaultPasswordEncrypter)(nil)
