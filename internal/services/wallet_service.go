package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
)

// WalletService provisions wallets and submits transfers through the custody
// platform, persisting lightweight mirror records locally.
type WalletService struct {
	custodyClient  custody.ClientInterface
	models         *data.Models
	monitorService monitor.MonitorServiceInterface
}

func NewWalletService(custodyClient custody.ClientInterface, models *data.Models, monitorService monitor.MonitorServiceInterface) *WalletService {
	return &WalletService{
		custodyClient:  custodyClient,
		models:         models,
		monitorService: monitorService,
	}
}

func (s *WalletService) monitorCounter(ctx context.Context, tag monitor.MetricTag, asset string) {
	if s.monitorService == nil {
		return
	}

	err := s.monitorService.MonitorCounters(tag, monitor.AssetLabels{Asset: asset}.ToMap())
	if err != nil {
		logging.L(ctx).Errorf("recording %s counter: %v", tag, err)
	}
}

// CreateWallet provisions a custody account for the user and persists the
// wallet mirror. The custody account is the source of truth; the mirror only
// carries identifiers and labels.
func (s *WalletService) CreateWallet(ctx context.Context, userID, asset, label string) (*data.Wallet, error) {
	account, err := s.custodyClient.PostAccount(ctx, custody.AccountRequest{
		Asset: asset,
		Label: label,
	})
	if err != nil {
		return nil, fmt.Errorf("provisioning custody account: %w", err)
	}

	wallet, err := s.models.Wallets.Insert(ctx, data.WalletInsert{
		UserID:           userID,
		CustodyAccountID: account.ID,
		Asset:            asset,
		Address:          account.Address,
		Label:            label,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting wallet mirror for custody account %s: %w", account.ID, err)
	}

	logging.L(ctx).Infof("created wallet %s for user %s on custody account %s", wallet.ID, userID, account.ID)
	s.monitorCounter(ctx, monitor.WalletsCounterTag, asset)

	return wallet, nil
}

// GetWallet returns the user's wallet by ID.
func (s *WalletService) GetWallet(ctx context.Context, userID, walletID string) (*data.Wallet, error) {
	return s.models.Wallets.Get(ctx, walletID, userID)
}

// GetWallets returns all wallets of the user.
func (s *WalletService) GetWallets(ctx context.Context, userID string) ([]data.Wallet, error) {
	return s.models.Wallets.GetAllByUserID(ctx, userID)
}

// CreateTransfer submits a transfer from one of the user's wallets and
// persists the transaction mirror. The transfer starts out pending; its
// terminal status is owned by the custody platform.
func (s *WalletService) CreateTransfer(ctx context.Context, userID, walletID, destinationAddress, amount string) (*data.Transaction, error) {
	wallet, err := s.models.Wallets.Get(ctx, walletID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting wallet %s: %w", walletID, err)
	}

	transfer, err := s.custodyClient.PostTransfer(ctx, custody.TransferRequest{
		SourceAccountID:    wallet.CustodyAccountID,
		DestinationAddress: destinationAddress,
		Asset:              wallet.Asset,
		Amount:             amount,
	})
	if err != nil {
		return nil, fmt.Errorf("submitting transfer from custody account %s: %w", wallet.CustodyAccountID, err)
	}

	transaction, err := s.models.Transactions.Insert(ctx, data.TransactionInsert{
		UserID:            userID,
		WalletID:          wallet.ID,
		CustodyTransferID: transfer.ID,
		Asset:             wallet.Asset,
		Amount:            transfer.Amount.String(),
		Fee:               transfer.Fee.String(),
		Status:            data.TransactionStatus(transfer.Status),
		Direction:         data.OutgoingTransactionDirection,
		Counterparty:      destinationAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting transaction mirror for transfer %s: %w", transfer.ID, err)
	}

	logging.L(ctx).Infof("submitted transfer %s from wallet %s", transfer.ID, wallet.ID)
	s.monitorCounter(ctx, monitor.TransfersCounterTag, wallet.Asset)

	return transaction, nil
}

// RefreshTransferStatus re-reads a transfer from the custody platform and
// updates the mirror when its status moved. Mirrors start out pending, so a
// transfer still pending needs no write.
func (s *WalletService) RefreshTransferStatus(ctx context.Context, custodyTransferID string) (*custody.Transfer, error) {
	transfer, err := s.custodyClient.GetTransferByID(ctx, custodyTransferID)
	if err != nil {
		return nil, fmt.Errorf("getting transfer %s: %w", custodyTransferID, err)
	}

	if transfer.Status != custody.TransferStatusPending {
		err = s.models.Transactions.UpdateStatus(ctx, custodyTransferID, data.TransactionStatus(transfer.Status))
		if err != nil {
			return nil, fmt.Errorf("updating transaction mirror for transfer %s: %w", custodyTransferID, err)
		}
	}

	return transfer, nil
}

// RefreshPendingTransfers reconciles pending transaction mirrors against the
// custody platform, patching the passed records in place so callers see the
// fresh statuses without a second read. A refresh failure on one transfer is
// logged and skipped so a custody hiccup does not block listing.
func (s *WalletService) RefreshPendingTransfers(ctx context.Context, transactions []*data.Transaction) {
	for _, transaction := range transactions {
		if transaction.Status != data.PendingTransactionStatus {
			continue
		}

		transfer, err := s.RefreshTransferStatus(ctx, transaction.CustodyTransferID)
		if err != nil {
			logging.L(ctx).Errorf("refreshing transfer %s: %v", transaction.CustodyTransferID, err)
			continue
		}

		transaction.Status = data.TransactionStatus(transfer.Status)
	}
}

// TransferFee estimates the total cost of a prospective transfer: the network
// fee plus the amount that would leave the wallet.
type TransferFee struct {
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
	Fee    decimal.Decimal `json:"fee"`
	Total  decimal.Decimal `json:"total"`
}

// EstimateTransferFee estimates the network fee of a prospective transfer
// from the user's wallet.
func (s *WalletService) EstimateTransferFee(ctx context.Context, userID, walletID, destinationAddress, amount string) (*TransferFee, error) {
	wallet, err := s.models.Wallets.Get(ctx, walletID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting wallet %s: %w", walletID, err)
	}

	fee, err := s.custodyClient.EstimateFee(ctx, custody.FeeRequest{
		SourceAccountID:    wallet.CustodyAccountID,
		DestinationAddress: destinationAddress,
		Asset:              wallet.Asset,
		Amount:             amount,
	})
	if err != nil {
		return nil, fmt.Errorf("estimating fee for custody account %s: %w", wallet.CustodyAccountID, err)
	}

	amountDec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing amount: %w", err)
	}

	return &TransferFee{
		Asset:  wallet.Asset,
		Amount: amountDec,
		Fee:    fee.Amount,
		Total:  amountDec.Add(fee.Amount),
	}, nil
}
