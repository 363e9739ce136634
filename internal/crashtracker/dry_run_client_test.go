package crashtracker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpay/wallet-platform-backend/internal/logging"
)

func Test_DryRun_LogAndReportErrors(t *testing.T) {
	mDryRunClient := &dryRunClient{}
	mError := fmt.Errorf("mock error")

	logger, hook := logrustest.NewNullLogger()
	ctx := logging.WithLogger(context.Background(), logrus.NewEntry(logger))

	t.Run("LogAndReportErrors with message", func(t *testing.T) {
		hook.Reset()

		mDryRunClient.LogAndReportErrors(ctx, mError, "error")

		require.Len(t, hook.Entries, 1)
		assert.Contains(t, hook.LastEntry().Message, "error: mock error")
	})

	t.Run("LogAndReportErrors without message", func(t *testing.T) {
		hook.Reset()

		mDryRunClient.LogAndReportErrors(ctx, mError, "")

		require.Len(t, hook.Entries, 1)
		assert.Contains(t, hook.LastEntry().Message, "mock error")
	})
}

func Test_DryRun_LogAndReportMessages(t *testing.T) {
	mDryRunClient := &dryRunClient{}

	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	ctx := logging.WithLogger(context.Background(), logrus.NewEntry(logger))

	mDryRunClient.LogAndReportMessages(ctx, "mock message")

	require.Len(t, hook.Entries, 1)
	assert.Contains(t, hook.LastEntry().Message, "mock message")
}

func Test_DryRun_FlushEvents(t *testing.T) {
	mDryRunClient := &dryRunClient{}

	valid := mDryRunClient.FlushEvents(time.Second)

	assert.Equal(t, false, valid)
}

func Test_DryRun_Clone(t *testing.T) {
	mDryRunClient := &dryRunClient{}

	cloneClient := mDryRunClient.Clone()

	assert.IsType(t, &dryRunClient{}, cloneClient)
}
