package utils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

var (
	ErrInvalidECPrivateKey = fmt.Errorf("invalid private key, make sure your private key is generated with a curve at least as strong as prime256v1")
	ErrInvalidECPublicKey  = fmt.Errorf("invalid public key, make sure your public key is generated with a curve at least as strong as prime256v1")
)

// ParseStrongECPublicKey parses a PEM-encoded elliptic curve public key and
// rejects curves weaker than prime256v1 (P-256).
func ParseStrongECPublicKey(publicKeyStr string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyStr))
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block containing public key: %w", ErrInvalidECPublicKey)
	}

	publicKeyInterface, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC public key: %w", ErrInvalidECPublicKey)
	}

	publicKey, ok := publicKeyInterface.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not a valid elliptic curve public key: %w", ErrInvalidECPublicKey)
	}

	if publicKey.Curve.Params().BitSize < elliptic.P256().Params().BitSize {
		return nil, fmt.Errorf("public key curve is not at least as strong as prime256v1: %w", ErrInvalidECPublicKey)
	}

	return publicKey, nil
}

// ParseStrongECPrivateKey parses a PEM-encoded elliptic curve private key in
// either SEC 1 or PKCS#8 form and rejects curves weaker than prime256v1.
func ParseStrongECPrivateKey(privateKeyStr string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyStr))
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block containing private key: %w", ErrInvalidECPrivateKey)
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		pkcsPrivateKey, pkcsErr := x509.ParsePKCS8PrivateKey(block.Bytes)
		if pkcsErr != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", ErrInvalidECPrivateKey)
		}

		var ok bool
		if privateKey, ok = pkcsPrivateKey.(*ecdsa.PrivateKey); !ok {
			return nil, fmt.Errorf("not a valid elliptic curve private key: %w", ErrInvalidECPrivateKey)
		}
	}

	if privateKey.Curve.Params().BitSize < elliptic.P256().Params().BitSize {
		return nil, fmt.Errorf("private key curve is not at least as strong as prime256v1: %w", ErrInvalidECPrivateKey)
	}

	return privateKey, nil
}

// ValidateStrongECKeyPair validates that the given public and private keys
// form a working EC keypair by signing and verifying a test message.
func ValidateStrongECKeyPair(publicKeyStr, privateKeyStr string) error {
	publicKey, err := ParseStrongECPublicKey(publicKeyStr)
	if err != nil {
		return fmt.Errorf("validating EC public key: %w", err)
	}

	privateKey, err := ParseStrongECPrivateKey(privateKeyStr)
	if err != nil {
		return fmt.Errorf("validating EC private key: %w", err)
	}

	msg := "test message"
	hash := sha256.Sum256([]byte(msg))
	r, s, err := ecdsa.Sign(rand.Reader, privateKey, hash[:])
	if err != nil {
		return fmt.Errorf("signing message for validation: %w", err)
	}

	if !ecdsa.Verify(publicKey, hash[:], r, s) {
		return fmt.Errorf("signature verification failed for the provided pair of keys")
	}

	return nil
}
