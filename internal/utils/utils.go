package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// DefaultCharset is used for random tokens that travel in URLs or emails.
	DefaultCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	SpecialCharset = "!@#$%&*+-_"
	// PasswordCharset adds special chars for generated passwords.
	PasswordCharset = DefaultCharset + SpecialCharset
)

// StringWithCharset generates a cryptographically random string of the given
// length from the charset.
func StringWithCharset(length int, charset string) (string, error) {
	b := make([]byte, length)
	for i := range b {
		randomNumber, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("generating random number in StringWithCharset: %w", err)
		}
		b[i] = charset[randomNumber.Int64()]
	}
	return string(b), nil
}

// RandomNumericCode generates a random code of the given length using digits
// only, the format used for OTP codes.
func RandomNumericCode(length int) (string, error) {
	return StringWithCharset(length, "0123456789")
}

// TruncateString shortens a string keeping boundaryLength characters on each
// side, for logging identifiers without leaking them whole.
func TruncateString(str string, boundaryLength int) string {
	if boundaryLength < 0 {
		boundaryLength = 0
	}
	if len(str) <= 2*boundaryLength {
		return str
	}
	return str[:boundaryLength] + "..." + str[len(str)-boundaryLength:]
}

// Humanize joins a list into a human readable "a, b and c" string.
func Humanize(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
