package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_APIKey_HasPermission(t *testing.T) {
	testCases := []struct {
		name        string
		permissions APIKeyPermissions
		req         APIKeyPermission
		want        bool
	}{
		{"exact match", APIKeyPermissions{ReadWallets}, ReadWallets, true},
		{"missing permission", APIKeyPermissions{ReadWallets}, WriteWallets, false},
		{"read:all grants any read", APIKeyPermissions{ReadAll}, ReadTransactions, true},
		{"read:all does not grant writes", APIKeyPermissions{ReadAll}, WriteTransactions, false},
		{"write:all grants any write", APIKeyPermissions{WriteAll}, WriteUsers, true},
		{"write:all does not grant reads", APIKeyPermissions{WriteAll}, ReadUsers, false},
		{"empty permissions", APIKeyPermissions{}, ReadWallets, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := &APIKey{Permissions: tc.permissions}
			assert.Equal(t, tc.want, key.HasPermission(tc.req))
		})
	}
}

func Test_APIKey_IsExpired(t *testing.T) {
	assert.False(t, (&APIKey{}).IsExpired())

	past := time.Now().UTC().Add(-time.Hour)
	assert.True(t, (&APIKey{ExpiryDate: &past}).IsExpired())

	future := time.Now().UTC().Add(time.Hour)
	assert.False(t, (&APIKey{ExpiryDate: &future}).IsExpired())
}

func Test_APIKey_IsAllowedIP(t *testing.T) {
	testCases := []struct {
		name       string
		allowedIPs IPList
		ip         string
		want       bool
	}{
		{"empty allowlist means open", IPList{}, "10.1.2.3", true},
		{"exact IP match", IPList{"192.168.1.1"}, "192.168.1.1", true},
		{"exact IP mismatch", IPList{"192.168.1.1"}, "192.168.1.2", false},
		{"CIDR contains", IPList{"10.0.0.0/8"}, "10.20.30.40", true},
		{"CIDR excludes", IPList{"10.0.0.0/8"}, "11.0.0.1", false},
		{"garbage candidate IP", IPList{"10.0.0.0/8"}, "not-an-ip", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := &APIKey{AllowedIPs: tc.allowedIPs}
			assert.Equal(t, tc.want, key.IsAllowedIP(tc.ip))
		})
	}
}

func Test_ValidatePermissions(t *testing.T) {
	assert.NoError(t, ValidatePermissions([]APIKeyPermission{ReadAll, WriteWallets}))
	assert.EqualError(t, ValidatePermissions([]APIKeyPermission{"read:everything"}), "invalid permission (read:everything)")
}

func Test_ValidateAllowedIPs(t *testing.T) {
	assert.NoError(t, ValidateAllowedIPs([]string{"10.0.0.1", "192.168.0.0/16"}))
	assert.EqualError(t, ValidateAllowedIPs([]string{"300.300.300.300"}), "invalid IP: 300.300.300.300")
	assert.EqualError(t, ValidateAllowedIPs([]string{"10.0.0.0/99"}), "invalid CIDR: 10.0.0.0/99")
}

func Test_generateSecret(t *testing.T) {
	secret, err := generateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, APIKeySecretSize)
	for _, c := range secret {
		assert.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q", c)
	}

	other, err := generateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}
