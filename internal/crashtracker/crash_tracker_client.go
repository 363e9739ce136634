package crashtracker

import (
	"context"
	"time"
)

// CrashTrackerClient reports errors and noteworthy messages to a crash
// tracking backend, in addition to logging them locally.
type CrashTrackerClient interface {
	// LogAndReportErrors logs the error and forwards it to the tracker.
	LogAndReportErrors(ctx context.Context, err error, msg string)
	// LogAndReportMessages logs the message and forwards it to the tracker.
	LogAndReportMessages(ctx context.Context, msg string)
	// FlushEvents blocks until buffered events are delivered or waitTime
	// elapses, reporting whether the flush completed in time.
	FlushEvents(waitTime time.Duration) bool
	// Recover captures an in-flight panic and reports it. Call it deferred.
	Recover()
	Clone() CrashTrackerClient
}
