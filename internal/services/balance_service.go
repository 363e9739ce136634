package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/shopspring/decimal"

	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/data"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
)

const (
	// transactionsPageSize is the page size used when walking an account's history.
	transactionsPageSize = 50

	historyRetryAttempts = 3
	historyRetryDelay    = 250 * time.Millisecond
)

// Balance is the point-in-time position of a wallet, folded from its full
// transaction history.
type Balance struct {
	Asset         string          `json:"asset"`
	Total         decimal.Decimal `json:"total"`
	Available     decimal.Decimal `json:"available"`
	PendingCredit decimal.Decimal `json:"pending_credit"`
	PendingDebit  decimal.Decimal `json:"pending_debit"`
}

// WalletBalance pairs a wallet with its computed balance. Err is set when the
// balance for that wallet could not be computed, without affecting the others.
type WalletBalance struct {
	WalletID string   `json:"wallet_id"`
	Asset    string   `json:"asset"`
	Balance  *Balance `json:"balance,omitempty"`
	Err      error    `json:"-"`
}

// BalanceService computes wallet balances from custody account history.
type BalanceService struct {
	custodyClient  custody.ClientInterface
	monitorService monitor.MonitorServiceInterface
}

func NewBalanceService(custodyClient custody.ClientInterface, monitorService monitor.MonitorServiceInterface) *BalanceService {
	return &BalanceService{
		custodyClient:  custodyClient,
		monitorService: monitorService,
	}
}

// ComputeBalance folds a transaction history into a balance.
//
// Completed transactions move the total: incoming ones add the amount,
// outgoing ones subtract the amount plus the network fee. Pending incoming
// transactions accumulate as pending credit and are not spendable until they
// complete. Pending outgoing transactions accumulate as pending debit, with
// the fee, since those funds are already committed. Failed and cancelled
// transactions contribute nothing.
//
// Available is always Total minus PendingDebit.
func ComputeBalance(asset string, transactions []custody.Transaction) Balance {
	balance := Balance{
		Asset:         asset,
		Total:         decimal.Zero,
		Available:     decimal.Zero,
		PendingCredit: decimal.Zero,
		PendingDebit:  decimal.Zero,
	}

	for _, tx := range transactions {
		switch tx.Status {
		case custody.TransactionStatusCompleted:
			if tx.Direction == custody.TransactionDirectionIncoming {
				balance.Total = balance.Total.Add(tx.Amount)
			} else {
				balance.Total = balance.Total.Sub(tx.Amount).Sub(tx.Fee)
			}
		case custody.TransactionStatusPending:
			if tx.Direction == custody.TransactionDirectionIncoming {
				balance.PendingCredit = balance.PendingCredit.Add(tx.Amount)
			} else {
				balance.PendingDebit = balance.PendingDebit.Add(tx.Amount).Add(tx.Fee)
			}
		case custody.TransactionStatusFailed, custody.TransactionStatusCancelled:
			// No effect on any bucket.
		}
	}

	balance.Available = balance.Total.Sub(balance.PendingDebit)

	return balance
}

// GetWalletBalance walks the wallet's full custody transaction history and
// folds it into a balance. Each page fetch is retried on transient failures.
func (s *BalanceService) GetWalletBalance(ctx context.Context, wallet *data.Wallet) (*Balance, error) {
	var transactions []custody.Transaction

	for page := 1; ; page++ {
		txPage, err := retry.DoWithData(
			func() (*custody.TransactionPage, error) {
				return s.custodyClient.GetAccountTransactions(ctx, wallet.CustodyAccountID, page, transactionsPageSize)
			},
			retry.Attempts(historyRetryAttempts),
			retry.Delay(historyRetryDelay),
			retry.Context(ctx),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(attempt uint, err error) {
				logging.L(ctx).Warnf("retrying page %d of account %s transactions (attempt %d): %v", page, wallet.CustodyAccountID, attempt+1, err)
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d of account %s transactions: %w", page, wallet.CustodyAccountID, err)
		}

		transactions = append(transactions, txPage.Transactions...)

		if !txPage.HasMore {
			break
		}
	}

	balance := ComputeBalance(wallet.Asset, transactions)

	return &balance, nil
}

// AggregateBalances computes the balances of all wallets concurrently. One
// wallet failing does not affect the others: its WalletBalance carries the
// error and a nil balance. Results come back in completion order.
func (s *BalanceService) AggregateBalances(ctx context.Context, wallets []data.Wallet) []WalletBalance {
	started := time.Now()

	results := make(chan WalletBalance, len(wallets))

	var wg sync.WaitGroup
	for i := range wallets {
		wallet := wallets[i]
		wg.Add(1)
		go func() {
			defer wg.Done()

			balance, err := s.GetWalletBalance(ctx, &wallet)
			if err != nil {
				logging.L(ctx).Errorf("computing balance for wallet %s: %v", wallet.ID, err)
				results <- WalletBalance{WalletID: wallet.ID, Asset: wallet.Asset, Err: err}
				return
			}

			results <- WalletBalance{WalletID: wallet.ID, Asset: wallet.Asset, Balance: balance}
		}()
	}

	wg.Wait()
	close(results)

	walletBalances := make([]WalletBalance, 0, len(wallets))
	failures := 0
	for wb := range results {
		if wb.Err != nil {
			failures++
		}
		walletBalances = append(walletBalances, wb)
	}

	s.monitorAggregation(ctx, time.Since(started), len(wallets), failures)

	return walletBalances
}

func (s *BalanceService) monitorAggregation(ctx context.Context, duration time.Duration, wallets, failures int) {
	if s.monitorService == nil {
		return
	}

	outcome := "success"
	if failures > 0 {
		outcome = "partial_failure"
	}
	labels := monitor.BalanceAggregationLabels{Outcome: outcome}.ToMap()

	if err := s.monitorService.MonitorDuration(duration, monitor.BalanceAggregationDurationTag, labels); err != nil {
		logging.L(ctx).Errorf("recording balance aggregation duration: %v", err)
	}
	if err := s.monitorService.MonitorHistogram(float64(wallets), monitor.BalanceAggregationWalletsTag, labels); err != nil {
		logging.L(ctx).Errorf("recording balance aggregation size: %v", err)
	}
}
