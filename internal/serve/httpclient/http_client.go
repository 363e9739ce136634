package httpclient

import (
	"net/http"
	"time"
)

// HTTPClientInterface is the subset of *http.Client the custody client
// depends on, kept narrow so tests can substitute a mock.
type HTTPClientInterface interface {
	Do(*http.Request) (*http.Response, error)
}

const TimeoutClientInSeconds = 40

// DefaultClient returns an HTTP client with a request timeout suitable for
// calls to the custody platform.
func DefaultClient() HTTPClientInterface {
	return &http.Client{Timeout: TimeoutClientInSeconds * time.Second}
}

var _ HTTPClientInterface = DefaultClient()
