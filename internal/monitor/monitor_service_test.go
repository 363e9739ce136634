package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMonitorClient struct {
	mock.Mock
}

func (m *mockMonitorClient) GetMetricHTTPHandler() http.Handler {
	return m.Called().Get(0).(http.Handler)
}

func (m *mockMonitorClient) GetMetricType() MetricType {
	return m.Called().Get(0).(MetricType)
}

func (m *mockMonitorClient) MonitorHTTPRequestDuration(duration time.Duration, labels HTTPRequestLabels) {
	m.Called(duration, labels)
}

func (m *mockMonitorClient) MonitorDBQueryDuration(duration time.Duration, tag MetricTag, labels DBQueryLabels) {
	m.Called(duration, tag, labels)
}

func (m *mockMonitorClient) MonitorCounters(tag MetricTag, labels map[string]string) {
	m.Called(tag, labels)
}

func (m *mockMonitorClient) MonitorDuration(duration time.Duration, tag MetricTag, labels map[string]string) {
	m.Called(duration, tag, labels)
}

func (m *mockMonitorClient) MonitorHistogram(value float64, tag MetricTag, labels map[string]string) {
	m.Called(value, tag, labels)
}

var _ MonitorClient = &mockMonitorClient{}

func Test_MonitorService_Start(t *testing.T) {
	monitorService := &MonitorService{}
	metricOptions := MetricOptions{}

	t.Run("start prometheus service metric", func(t *testing.T) {
		metricOptions.MetricType = "PROMETHEUS"
		err := monitorService.Start(metricOptions)
		require.NoError(t, err)

		require.IsType(t, &prometheusClient{}, monitorService.MonitorClient)
		assert.NotNil(t, monitorService.MonitorClient)
	})

	t.Run("error monitor service already initialized", func(t *testing.T) {
		metricOptions.MetricType = "MOCK_METRIC_TYPE"

		err := monitorService.Start(metricOptions)
		require.EqualError(t, err, "service already initialized")
	})

	t.Run("error unknown metric type", func(t *testing.T) {
		monitorService.MonitorClient = nil

		metricOptions.MetricType = "MOCK_METRIC_TYPE"
		err := monitorService.Start(metricOptions)
		require.EqualError(t, err, "error creating monitor client: unknown metric type: \"MOCK_METRIC_TYPE\"")
	})
}

func Test_MonitorService_GetMetricHTTPHandler(t *testing.T) {
	monitorService := &MonitorService{}

	mMonitorClient := &mockMonitorClient{}
	monitorService.MonitorClient = mMonitorClient

	t.Run("returns the metric http handler", func(t *testing.T) {
		mHTTPHandler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"status": "OK"}`))
			require.NoError(t, err)
		})
		mMonitorClient.On("GetMetricHTTPHandler").Return(mHTTPHandler).Once()

		httpHandler, err := monitorService.GetMetricHTTPHandler()
		require.NoError(t, err)

		r := chi.NewRouter()
		r.Get("/metrics", httpHandler.ServeHTTP)

		req, err := http.NewRequest("GET", "/metrics", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		wantJSON := `{"status": "OK"}`
		assert.JSONEq(t, wantJSON, rr.Body.String())
		mMonitorClient.AssertExpectations(t)
	})

	t.Run("error monitor client not initialized", func(t *testing.T) {
		monitorService.MonitorClient = nil

		_, err := monitorService.GetMetricHTTPHandler()
		require.EqualError(t, err, "client was not initialized")
	})
}

func Test_MonitorService_MonitorHTTPRequestDuration(t *testing.T) {
	monitorService := &MonitorService{}

	mMonitorClient := &mockMonitorClient{}
	monitorService.MonitorClient = mMonitorClient

	mLabels := HTTPRequestLabels{
		Status: "200",
		Route:  "/mock",
		Method: "get",
	}

	mDuration := time.Duration(1)

	t.Run("monitor request time is called", func(t *testing.T) {
		mMonitorClient.On("MonitorHTTPRequestDuration", mDuration, mLabels).Once()
		err := monitorService.MonitorHTTPRequestDuration(mDuration, mLabels)

		require.NoError(t, err)
		mMonitorClient.AssertExpectations(t)
	})

	t.Run("error monitor client not initialized", func(t *testing.T) {
		monitorService.MonitorClient = nil

		err := monitorService.MonitorHTTPRequestDuration(mDuration, mLabels)
		require.EqualError(t, err, "client was not initialized")
	})
}

func Test_MonitorService_MonitorDBQueryDuration(t *testing.T) {
	monitorService := &MonitorService{}

	mMonitorClient := &mockMonitorClient{}
	monitorService.MonitorClient = mMonitorClient

	mLabels := DBQueryLabels{
		QueryType: "find",
	}

	mDuration := time.Duration(1)

	mMetricTag := MetricTag("mock")

	t.Run("monitor db query duration is called", func(t *testing.T) {
		mMonitorClient.On("MonitorDBQueryDuration", mDuration, mMetricTag, mLabels).Once()
		err := monitorService.MonitorDBQueryDuration(mDuration, mMetricTag, mLabels)

		require.NoError(t, err)
		mMonitorClient.AssertExpectations(t)
	})

	t.Run("error monitor client not initialized", func(t *testing.T) {
		monitorService.MonitorClient = nil

		err := monitorService.MonitorDBQueryDuration(mDuration, mMetricTag, mLabels)
		require.EqualError(t, err, "client was not initialized")
	})
}

func Test_MonitorService_MonitorCounters(t *testing.T) {
	monitorService := &MonitorService{}

	mMonitorClient := &mockMonitorClient{}
	monitorService.MonitorClient = mMonitorClient

	mMetricTag := MetricTag("mock")

	t.Run("monitor counter is called without labels", func(t *testing.T) {
		mMonitorClient.On("MonitorCounters", mMetricTag, map[string]string{}).Once()
		err := monitorService.MonitorCounters(mMetricTag, map[string]string{})

		require.NoError(t, err)
		mMonitorClient.AssertExpectations(t)
	})

	t.Run("monitor counter is called with labels", func(t *testing.T) {
		labelsMock := map[string]string{
			"asset": "BTC",
		}

		mMonitorClient.On("MonitorCounters", mMetricTag, labelsMock).Once()
		err := monitorService.MonitorCounters(mMetricTag, labelsMock)

		require.NoError(t, err)
		mMonitorClient.AssertExpectations(t)
	})

	t.Run("error monitor client not initialized", func(t *testing.T) {
		monitorService.MonitorClient = nil

		err := monitorService.MonitorCounters(mMetricTag, nil)
		require.EqualError(t, err, "client was not initialized")
	})
}

func Test_QueryObserver_ObserveQuery(t *testing.T) {
	mMonitorService := &MockMonitorService{}
	observer := NewQueryObserver(mMonitorService)

	mDuration := 25 * time.Millisecond

	t.Run("successful query is recorded under the success tag", func(t *testing.T) {
		mMonitorService.On("MonitorDBQueryDuration", mDuration, SuccessfulQueryDurationTag, DBQueryLabels{QueryType: "find"}).Return(nil).Once()

		observer.ObserveQuery("find", mDuration, true)
		mMonitorService.AssertExpectations(t)
	})

	t.Run("failed query is recorded under the failure tag", func(t *testing.T) {
		mMonitorService.On("MonitorDBQueryDuration", mDuration, FailureQueryDurationTag, DBQueryLabels{QueryType: "insert"}).Return(nil).Once()

		observer.ObserveQuery("insert", mDuration, false)
		mMonitorService.AssertExpectations(t)
	})
}
