package monitor

import (
	"fmt"
	"strings"
)

// MetricType identifies the metrics backend used by the server.
type MetricType string

const (
	MetricTypePrometheus MetricType = "PROMETHEUS"
)

// ParseMetricType parses a case-insensitive metric type name.
func ParseMetricType(metricTypeStr string) (MetricType, error) {
	normalized := strings.ToUpper(metricTypeStr)

	switch metricType := MetricType(normalized); metricType {
	case MetricTypePrometheus:
		return metricType, nil
	default:
		return "", fmt.Errorf("invalid metric type %q", normalized)
	}
}

type MetricOptions struct {
	MetricType  MetricType
	Environment string
}

// GetClient builds the MonitorClient for the configured metric type.
func GetClient(opts MetricOptions) (MonitorClient, error) {
	switch opts.MetricType {
	case MetricTypePrometheus:
		return NewPrometheusClient()
	default:
		return nil, fmt.Errorf("unknown metric type: %q", opts.MetricType)
	}
}
