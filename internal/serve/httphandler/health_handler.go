package httphandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
)

// Status indicates whether the service is healthy or not.
type Status string

const (
	// StatusPass indicates that the service is healthy.
	StatusPass Status = "pass"
	// StatusFail indicates that the service is unhealthy.
	StatusFail Status = "fail"
)

// DatabasePinger abstracts the database connectivity check.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse follows the health check response format for HTTP APIs,
// based on the format defined in the draft IETF network working group
// standard, Health Check Response Format for HTTP APIs.
//
// https://datatracker.ietf.org/doc/html/draft-inadarei-api-health-check-06#name-api-health-response
type HealthResponse struct {
	Status    Status            `json:"status"`
	Version   string            `json:"version,omitempty"`
	ServiceID string            `json:"service_id,omitempty"`
	ReleaseID string            `json:"release_id,omitempty"`
	Services  map[string]Status `json:"services,omitempty"`
}

// HealthHandler implements a simple handler that returns the health response.
type HealthHandler struct {
	Version       string
	ServiceID     string
	ReleaseID     string
	MongoPool     DatabasePinger
	CustodyClient custody.ClientInterface
}

// ServeHTTP implements the http.Handler interface.
func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	responseStatus := StatusPass
	services := map[string]Status{}

	if h.MongoPool != nil {
		dbStatus := StatusPass
		if err := h.MongoPool.Ping(ctx); err != nil {
			dbStatus = StatusFail
			responseStatus = StatusFail
		}
		services["database"] = dbStatus
	}

	if h.CustodyClient != nil {
		custodyStatus := StatusPass
		if ok, err := h.CustodyClient.Ping(ctx); err != nil || !ok {
			custodyStatus = StatusFail
			responseStatus = StatusFail
		}
		services["custody_platform"] = custodyStatus
	}

	response := HealthResponse{
		Status:    responseStatus,
		Version:   h.Version,
		ServiceID: h.ServiceID,
		ReleaseID: h.ReleaseID,
		Services:  services,
	}

	// An unhealthy dependency returns 503 so orchestrators take the instance
	// out of rotation.
	statusCode := http.StatusOK
	if response.Status == StatusFail {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.L(ctx).Errorf("writing health response: %v", err)
	}
}
