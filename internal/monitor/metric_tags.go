package monitor

type MetricTag string

const (
	SuccessfulQueryDurationTag MetricTag = "successful_queries_duration"
	FailureQueryDurationTag    MetricTag = "failure_queries_duration"
	HTTPRequestDurationTag     MetricTag = "requests_duration_seconds"
	// Business:
	WalletsCounterTag             MetricTag = "wallets_counter"
	TransfersCounterTag           MetricTag = "transfers_counter"
	BalanceAggregationDurationTag MetricTag = "balance_aggregation_duration_seconds"
	BalanceAggregationWalletsTag  MetricTag = "balance_aggregation_wallets"
)

func (m MetricTag) ListAll() []MetricTag {
	return []MetricTag{
		SuccessfulQueryDurationTag,
		FailureQueryDurationTag,
		HTTPRequestDurationTag,
		WalletsCounterTag,
		TransfersCounterTag,
		BalanceAggregationDurationTag,
		BalanceAggregationWalletsTag,
	}
}
