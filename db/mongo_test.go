package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
)

type recordingObserver struct {
	mu      sync.Mutex
	entries []observedQuery
}

type observedQuery struct {
	commandName string
	success     bool
}

func (r *recordingObserver) ObserveQuery(commandName string, _ time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, observedQuery{commandName: commandName, success: success})
}

func Test_OpenMongoPool_validatesInputs(t *testing.T) {
	ctx := context.Background()

	pool, err := OpenMongoPool(ctx, "", "wallets")
	assert.Nil(t, pool)
	assert.EqualError(t, err, "database URI is required")

	pool, err = OpenMongoPool(ctx, "mongodb://localhost:27017", "")
	assert.Nil(t, pool)
	assert.EqualError(t, err, "database name is required")
}

func Test_newCommandMonitor_correlatesOutcomes(t *testing.T) {
	observer := &recordingObserver{}
	monitor := newCommandMonitor(observer)
	ctx := context.Background()

	startedEvt := &event.CommandStartedEvent{Command: bson.Raw{}, CommandName: "find", RequestID: 7}
	monitor.Started(ctx, startedEvt)
	monitor.Succeeded(ctx, &event.CommandSucceededEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "find", RequestID: 7},
	})

	failedStart := &event.CommandStartedEvent{CommandName: "insert", RequestID: 8}
	monitor.Started(ctx, failedStart)
	monitor.Failed(ctx, &event.CommandFailedEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert", RequestID: 8},
	})

	require.GreaterOrEqual(t, len(observer.entries), 2)
	assert.Contains(t, observer.entries, observedQuery{commandName: "find", success: true})
	assert.Contains(t, observer.entries, observedQuery{commandName: "insert", success: false})
}

func Test_newCommandMonitor_ignoresUnknownRequestIDs(t *testing.T) {
	observer := &recordingObserver{}
	monitor := newCommandMonitor(observer)

	monitor.Succeeded(context.Background(), &event.CommandSucceededEvent{
		CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "find", RequestID: 99},
	})

	assert.Empty(t, observer.entries)
}
