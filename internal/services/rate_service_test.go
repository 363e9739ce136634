package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/wallet-platform-backend/internal/custody"
)

func Test_RateService_GetExchangeRate(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeated lookups from the cache", func(t *testing.T) {
		custodyClientMock := &custody.MockClient{}
		custodyClientMock.
			On("GetExchangeRate", ctx, "BTC", "USD").
			Return(&custody.Rate{BaseAsset: "BTC", QuoteAsset: "USD", Rate: decimal.RequireFromString("64250.10")}, nil).
			Once()

		rateService, err := NewRateService(custodyClientMock)
		require.NoError(t, err)

		rate, err := rateService.GetExchangeRate(ctx, "BTC", "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", rate.QuoteAsset)

		// The ristretto set is async; wait for the entry to land before the
		// second lookup.
		rateService.cache.Wait()

		rate2, err := rateService.GetExchangeRate(ctx, "BTC", "USD")
		require.NoError(t, err)
		assert.True(t, rate2.Rate.Equal(rate.Rate))

		custodyClientMock.AssertExpectations(t)
	})

	t.Run("propagates custody errors", func(t *testing.T) {
		custodyClientMock := &custody.MockClient{}
		custodyClientMock.
			On("GetExchangeRate", ctx, "BTC", "EUR").
			Return(nil, fmt.Errorf("rate unavailable")).
			Once()

		rateService, err := NewRateService(custodyClientMock)
		require.NoError(t, err)

		rate, err := rateService.GetExchangeRate(ctx, "BTC", "EUR")
		assert.ErrorContains(t, err, "getting exchange rate BTC/EUR")
		assert.Nil(t, rate)
	})
}
