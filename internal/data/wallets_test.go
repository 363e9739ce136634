package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_WalletInsert_Validate(t *testing.T) {
	valid := WalletInsert{
		UserID:           "user-id",
		CustodyAccountID: "acc-id",
		Asset:            "BTC",
		Address:          "bc1q...",
		Label:            "savings",
	}
	assert.NoError(t, valid.Validate())

	testCases := []struct {
		name    string
		mutate  func(wi *WalletInsert)
		wantErr string
	}{
		{
			name:    "missing user ID",
			mutate:  func(wi *WalletInsert) { wi.UserID = "" },
			wantErr: "user ID is required",
		},
		{
			name:    "missing custody account ID",
			mutate:  func(wi *WalletInsert) { wi.CustodyAccountID = "" },
			wantErr: "custody account ID is required",
		},
		{
			name:    "missing asset",
			mutate:  func(wi *WalletInsert) { wi.Asset = "" },
			wantErr: "asset is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			insert := valid
			tc.mutate(&insert)
			assert.EqualError(t, insert.Validate(), tc.wantErr)
		})
	}

	t.Run("address and label are optional", func(t *testing.T) {
		insert := valid
		insert.Address = ""
		insert.Label = ""
		assert.NoError(t, insert.Validate())
	})
}
