package custody

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianpay/wallet-platform-backend/internal/utils"
)

// Environment holds the base URL of the custody platform environment.
type Environment string

const (
	Production Environment = "https://api.meridiancustody.com"
	Sandbox    Environment = "https://api-sandbox.meridiancustody.com"
)

// Account represents a custody account hosted by the platform. Every wallet
// on our side mirrors exactly one custody account.
type Account struct {
	ID         string    `json:"id"`
	Asset      string    `json:"asset"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	CreateDate time.Time `json:"createDate"`
}

// AccountRequest is the payload to provision a new custody account.
type AccountRequest struct {
	Asset          string `json:"asset"`
	Label          string `json:"label,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (ar AccountRequest) validate() error {
	if ar.Asset == "" {
		return fmt.Errorf("asset must be provided")
	}
	return nil
}

// TransactionStatus is the custody platform's view of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// TransactionDirection indicates whether funds moved into or out of the account.
type TransactionDirection string

const (
	TransactionDirectionIncoming TransactionDirection = "incoming"
	TransactionDirectionOutgoing TransactionDirection = "outgoing"
)

// Transaction is a single entry of a custody account's history. Amounts come
// over the wire as JSON strings and are decoded into decimals.
type Transaction struct {
	ID           string               `json:"id"`
	AccountID    string               `json:"accountId"`
	Asset        string               `json:"asset"`
	Amount       decimal.Decimal      `json:"amount"`
	Fee          decimal.Decimal      `json:"fee"`
	Status       TransactionStatus    `json:"status"`
	Direction    TransactionDirection `json:"direction"`
	Counterparty string               `json:"counterparty,omitempty"`
	CreateDate   time.Time            `json:"createDate"`
}

// TransactionPage is one page of an account's transaction history.
type TransactionPage struct {
	Transactions []Transaction `json:"data"`
	HasMore      bool          `json:"hasMore"`
}

// TransferStatus is the status of a transfer submitted through the platform.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
)

type TransferErrorCode string

const (
	TransferErrorCodeInsufficientFunds TransferErrorCode = "insufficient_funds"
	TransferErrorCodeTransferDenied    TransferErrorCode = "transfer_denied"
	TransferErrorCodeTransferFailed    TransferErrorCode = "transfer_failed"
)

// Transfer represents a movement of funds from a custody account to a
// destination address.
type Transfer struct {
	ID                 string            `json:"id"`
	SourceAccountID    string            `json:"sourceAccountId"`
	DestinationAddress string            `json:"destinationAddress"`
	Asset              string            `json:"asset"`
	Amount             decimal.Decimal   `json:"amount"`
	Fee                decimal.Decimal   `json:"fee"`
	Status             TransferStatus    `json:"status"`
	ErrorCode          TransferErrorCode `json:"errorCode,omitempty"`
	CreateDate         time.Time         `json:"createDate"`
}

// TransferRequest is the payload to submit a new transfer.
type TransferRequest struct {
	SourceAccountID    string `json:"sourceAccountId"`
	DestinationAddress string `json:"destinationAddress"`
	Asset              string `json:"asset"`
	Amount             string `json:"amount"`
	IdempotencyKey     string `json:"idempotencyKey"`
}

func (tr TransferRequest) validate() error {
	if tr.SourceAccountID == "" {
		return fmt.Errorf("source account ID must be provided")
	}
	if tr.DestinationAddress == "" {
		return fmt.Errorf("destination address must be provided")
	}
	if tr.Asset == "" {
		return fmt.Errorf("asset must be provided")
	}
	if err := utils.ValidateAmount(tr.Amount); err != nil {
		return fmt.Errorf("validating amount: %w", err)
	}
	return nil
}

// FeeRequest is the payload to estimate the network fee of a prospective transfer.
type FeeRequest struct {
	SourceAccountID    string `json:"sourceAccountId"`
	DestinationAddress string `json:"destinationAddress"`
	Asset              string `json:"asset"`
	Amount             string `json:"amount"`
}

func (fr FeeRequest) validate() error {
	if fr.SourceAccountID == "" {
		return fmt.Errorf("source account ID must be provided")
	}
	if fr.Asset == "" {
		return fmt.Errorf("asset must be provided")
	}
	if err := utils.ValidateAmount(fr.Amount); err != nil {
		return fmt.Errorf("validating amount: %w", err)
	}
	return nil
}

// Fee is the platform's estimate for a prospective transfer.
type Fee struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// Rate is an exchange rate quote between two assets.
type Rate struct {
	BaseAsset  string          `json:"baseAsset"`
	QuoteAsset string          `json:"quoteAsset"`
	Rate       decimal.Decimal `json:"rate"`
	Timestamp  time.Time       `json:"timestamp"`
}
