package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// defaultRefreshTimeoutInMinutes is the maximum remaining validity a token can
// have and still be refreshed. Tokens further from expiration are returned as-is.
const defaultRefreshTimeoutInMinutes = 2

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("expired token")
	ErrUnparsableSigningKey = errors.New("unable to parse EC signing key")
)

type JWTManager interface {
	GenerateToken(ctx context.Context, user *User, expiresAt time.Time) (string, error)
	RefreshToken(ctx context.Context, tokenString string, expiresAt time.Time) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (bool, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*User, error)
}

type claims struct {
	User *User `json:"user"`
	jwt.RegisteredClaims
}

type defaultJWTManager struct {
	publicKeyPEM  string
	privateKeyPEM string
}

type defaultJWTManagerOption func(m *defaultJWTManager)

func withECKeypair(publicKeyPEM, privateKeyPEM string) defaultJWTManagerOption {
	return func(m *defaultJWTManager) {
		m.publicKeyPEM = publicKeyPEM
		m.privateKeyPEM = privateKeyPEM
	}
}

func newDefaultJWTManager(options ...defaultJWTManagerOption) *defaultJWTManager {
	jwtManager := &defaultJWTManager{}
	for _, option := range options {
		option(jwtManager)
	}
	return jwtManager
}

func (m *defaultJWTManager) GenerateToken(ctx context.Context, user *User, expiresAt time.Time) (string, error) {
	privateKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(m.privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnparsableSigningKey, err)
	}

	c := claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, c)
	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// RefreshToken generates a new token with the given expiration when the
// current one is within defaultRefreshTimeoutInMinutes of expiring. A token
// with more remaining validity is returned unchanged.
func (m *defaultJWTManager) RefreshToken(ctx context.Context, tokenString string, expiresAt time.Time) (string, error) {
	c, err := m.parseToken(ctx, tokenString)
	if err != nil {
		return "", err
	}

	timeUntilExpiration := time.Until(c.ExpiresAt.Time)
	if timeUntilExpiration > time.Minute*defaultRefreshTimeoutInMinutes {
		return tokenString, nil
	}

	return m.GenerateToken(ctx, c.User, expiresAt)
}

func (m *defaultJWTManager) ValidateToken(ctx context.Context, tokenString string) (bool, error) {
	_, err := m.parseToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *defaultJWTManager) GetUserFromToken(ctx context.Context, tokenString string) (*User, error) {
	c, err := m.parseToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return c.User, nil
}

func (m *defaultJWTManager) parseToken(ctx context.Context, tokenString string) (*claims, error) {
	publicKey, err := jwt.ParseECPublicKeyFromPEM([]byte(m.publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnparsableSigningKey, err)
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return c, nil
}

var _ JWTManager = (*defaultJWTManager)(nil)
