package monitor

type HTTPRequestLabels struct {
	Status string
	Route  string
	Method string
}

type DBQueryLabels struct {
	QueryType string
}

type AssetLabels struct {
	Asset string
}

func (a AssetLabels) ToMap() map[string]string {
	return map[string]string{
		"asset": a.Asset,
	}
}

type BalanceAggregationLabels struct {
	Outcome string
}

func (b BalanceAggregationLabels) ToMap() map[string]string {
	return map[string]string{
		"outcome": b.Outcome,
	}
}
