package httpclient

import (
	"net/http"

	"github.com/stretchr/testify/mock"
)

// HTTPClientMock is a testify mock for HTTPClientInterface.
type HTTPClientMock struct {
	mock.Mock
}

var _ HTTPClientInterface = (*HTTPClientMock)(nil)

func (h *HTTPClientMock) Do(req *http.Request) (*http.Response, error) {
	args := h.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}
