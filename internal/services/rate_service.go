package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
)

const (
	rateCacheTTL         = 30 * time.Second
	rateCacheNumCounters = 1e4
	rateCacheMaxCost     = 1 << 20
)

// RateService serves exchange rate quotes with a short-lived cache in front
// of the custody platform, so bursts of balance conversions do not hammer the
// rates endpoint.
type RateService struct {
	custodyClient custody.ClientInterface
	cache         *ristretto.Cache
}

func NewRateService(custodyClient custody.ClientInterface) (*RateService, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: rateCacheNumCounters,
		MaxCost:     rateCacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating rate cache: %w", err)
	}

	return &RateService{
		custodyClient: custodyClient,
		cache:         cache,
	}, nil
}

// GetExchangeRate returns the current rate between two assets, cached for a
// short window.
func (s *RateService) GetExchangeRate(ctx context.Context, baseAsset, quoteAsset string) (*custody.Rate, error) {
	cacheKey := baseAsset + "/" + quoteAsset
	if cached, found := s.cache.Get(cacheKey); found {
		if rate, ok := cached.(*custody.Rate); ok {
			return rate, nil
		}
	}

	rate, err := s.custodyClient.GetExchangeRate(ctx, baseAsset, quoteAsset)
	if err != nil {
		return nil, fmt.Errorf("getting exchange rate %s: %w", cacheKey, err)
	}

	if ok := s.cache.SetWithTTL(cacheKey, rate, 1, rateCacheTTL); !ok {
		logging.L(ctx).Debugf("rate cache rejected entry for %s", cacheKey)
	}

	return rate, nil
}
