package graphql

import (
	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/services"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

// The view funcs map domain structs onto the field names the schema exposes,
// so renaming a bson or json tag never silently breaks the API.

func userView(u *auth.User) map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"email":       u.Email,
		"phoneNumber": u.PhoneNumber,
		"isActive":    u.IsActive,
		"roles":       u.Roles,
	}
}

func apiKeyView(k *data.APIKey) map[string]interface{} {
	view := map[string]interface{}{
		"id":          k.ID,
		"name":        k.Name,
		"permissions": k.Permissions,
		"allowedIps":  []string(k.AllowedIPs),
		"createdAt":   k.CreatedAt,
	}
	if k.Key != "" {
		view["key"] = k.Key
	}
	if k.ExpiryDate != nil {
		view["expiryDate"] = *k.ExpiryDate
	}
	if k.LastUsedAt != nil {
		view["lastUsedAt"] = *k.LastUsedAt
	}
	return view
}

func walletView(w *data.Wallet) map[string]interface{} {
	return map[string]interface{}{
		"id":        w.ID,
		"asset":     w.Asset,
		"address":   w.Address,
		"label":     w.Label,
		"createdAt": w.CreatedAt,
		"updatedAt": w.UpdatedAt,
	}
}

func balanceView(b *services.Balance) map[string]interface{} {
	return map[string]interface{}{
		"asset":         b.Asset,
		"total":         b.Total.String(),
		"available":     b.Available.String(),
		"pendingCredit": b.PendingCredit.String(),
		"pendingDebit":  b.PendingDebit.String(),
	}
}

func walletBalanceView(wb services.WalletBalance) map[string]interface{} {
	view := map[string]interface{}{
		"walletId": wb.WalletID,
		"asset":    wb.Asset,
	}
	if wb.Balance != nil {
		view["balance"] = balanceView(wb.Balance)
	}
	if wb.Err != nil {
		// Per-wallet failures surface inline, never as a batch error.
		view["error"] = "balance temporarily unavailable"
	}
	return view
}

func transactionView(tx *data.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"id":                tx.ID,
		"walletId":          tx.WalletID,
		"custodyTransferId": tx.CustodyTransferID,
		"direction":         string(tx.Direction),
		"status":            string(tx.Status),
		"amount":            tx.Amount,
		"fee":               tx.Fee,
		"asset":             tx.Asset,
		"counterparty":      tx.Counterparty,
		"createdAt":         tx.CreatedAt,
		"updatedAt":         tx.UpdatedAt,
	}
}

func transferFeeView(f *services.TransferFee) map[string]interface{} {
	return map[string]interface{}{
		"asset":  f.Asset,
		"amount": f.Amount.String(),
		"fee":    f.Fee.String(),
		"total":  f.Total.String(),
	}
}

func rateView(rate *custody.Rate) map[string]interface{} {
	return map[string]interface{}{
		"baseAsset":  rate.BaseAsset,
		"quoteAsset": rate.QuoteAsset,
		"rate":       rate.Rate.String(),
		"timestamp":  rate.Timestamp,
	}
}

func authPayloadToken(token string) map[string]interface{} {
	return map[string]interface{}{
		"token":       token,
		"otpRequired": false,
	}
}

func authPayloadOTPChallenge() map[string]interface{} {
	return map[string]interface{}{
		"otpRequired": true,
		"message":     otpSentReply,
	}
}
