package custody

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient mocks the custody platform ClientInterface.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Ping(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockClient) PostAccount(ctx context.Context, accountReq AccountRequest) (*Account, error) {
	args := m.Called(ctx, accountReq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockClient) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockClient) GetAccountTransactions(ctx context.Context, accountID string, page, pageSize int) (*TransactionPage, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransactionPage), args.Error(1)
}

func (m *MockClient) PostTransfer(ctx context.Context, transferReq TransferRequest) (*Transfer, error) {
	args := m.Called(ctx, transferReq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transfer), args.Error(1)
}

func (m *MockClient) GetTransferByID(ctx context.Context, id string) (*Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transfer), args.Error(1)
}

func (m *MockClient) EstimateFee(ctx context.Context, feeReq FeeRequest) (*Fee, error) {
	args := m.Called(ctx, feeReq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Fee), args.Error(1)
}

func (m *MockClient) GetExchangeRate(ctx context.Context, baseAsset, quoteAsset string) (*Rate, error) {
	args := m.Called(ctx, baseAsset, quoteAsset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Rate), args.Error(1)
}

var _ ClientInterface = (*MockClient)(nil)
