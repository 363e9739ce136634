// Package db owns the MongoDB connection pool used by every model. It wraps
// the driver client with connect/ping settings and an optional command
// observer that feeds query durations into the metrics service.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnectTimeout = 10 * time.Second
	MaxDBPingRetries      = 3
)

// QueryObserver receives the outcome of every MongoDB command when installed
// with WithCommandObserver. Implementations must be safe for concurrent use.
type QueryObserver interface {
	ObserveQuery(commandName string, duration time.Duration, success bool)
}

// MongoPool wraps a mongo client scoped to a single database.
type MongoPool struct {
	client   *mongo.Client
	database *mongo.Database
}

type mongoPoolConfig struct {
	observer QueryObserver
}

type Option func(*mongoPoolConfig)

// WithCommandObserver installs a QueryObserver on the underlying client.
func WithCommandObserver(observer QueryObserver) Option {
	return func(cfg *mongoPoolConfig) {
		cfg.observer = observer
	}
}

// OpenMongoPool connects to the MongoDB deployment at uri and returns a pool
// scoped to dbName. The connection is verified with a ping before returning.
func OpenMongoPool(ctx context.Context, uri, dbName string, opts ...Option) (*MongoPool, error) {
	if uri == "" {
		return nil, fmt.Errorf("database URI is required")
	}
	if dbName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	cfg := mongoPoolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(defaultConnectTimeout)

	if cfg.observer != nil {
		clientOpts.SetMonitor(newCommandMonitor(cfg.observer))
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pool := &MongoPool{
		client:   client,
		database: client.Database(dbName),
	}

	if err := pool.Ping(ctx); err != nil {
		// best-effort disconnect, the pool is unusable anyway
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return pool, nil
}

// Collection returns a handle for the named collection in the pool's database.
func (p *MongoPool) Collection(name string) *mongo.Collection {
	return p.database.Collection(name)
}

// Database returns the underlying database handle.
func (p *MongoPool) Database() *mongo.Database {
	return p.database
}

// Client returns the underlying client, needed for multi-document sessions.
func (p *MongoPool) Client() *mongo.Client {
	return p.client
}

// Ping verifies the deployment is reachable from a primary.
func (p *MongoPool) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()
	return p.client.Ping(pingCtx, readpref.Primary())
}

// Close disconnects the underlying client.
func (p *MongoPool) Close(ctx context.Context) error {
	if err := p.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from mongo: %w", err)
	}
	return nil
}

// newCommandMonitor adapts a QueryObserver to the driver's event API. Started
// events are correlated with their outcome through the request ID.
func newCommandMonitor(observer QueryObserver) *event.CommandMonitor {
	var mu sync.Mutex
	started := map[int64]time.Time{}

	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			mu.Lock()
			defer mu.Unlock()
			started[evt.RequestID] = time.Now()
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			mu.Lock()
			startedAt, ok := started[evt.RequestID]
			delete(started, evt.RequestID)
			mu.Unlock()
			if ok {
				observer.ObserveQuery(evt.CommandName, time.Since(startedAt), true)
			}
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			mu.Lock()
			startedAt, ok := started[evt.RequestID]
			delete(started, evt.RequestID)
			mu.Unlock()
			if ok {
				observer.ObserveQuery(evt.CommandName, time.Since(startedAt), false)
			}
		},
	}
}
