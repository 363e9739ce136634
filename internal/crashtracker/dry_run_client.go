package crashtracker

import (
	"context"
	"fmt"
	"time"

	"github.com/meridianpay/wallet-platform-backend/internal/logging"
)

// dryRunClient logs would-be crash reports locally without talking to any
// tracking backend. Useful for development and tests.
type dryRunClient struct{}

var _ CrashTrackerClient = (*dryRunClient)(nil)

func (c *dryRunClient) LogAndReportErrors(ctx context.Context, err error, msg string) {
	if msg != "" {
		err = fmt.Errorf("%s: %w", msg, err)
	}
	logging.L(ctx).Errorf("[dry-run crash tracker] %+v", err)
}

func (c *dryRunClient) LogAndReportMessages(ctx context.Context, msg string) {
	logging.L(ctx).Infof("[dry-run crash tracker] %s", msg)
}

func (c *dryRunClient) FlushEvents(waitTime time.Duration) bool {
	return false
}

func (c *dryRunClient) Recover() {}

func (c *dryRunClient) Clone() CrashTrackerClient {
	return &dryRunClient{}
}

func NewDryRunClient() (*dryRunClient, error) {
	return &dryRunClient{}, nil
}
