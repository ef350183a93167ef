package repository

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/users-api/internal/model"
)

// InstrumentedStore wraps a Store with New Relic datastore segments and a
// slow call log. Both are no-ops when there is no transaction in the context
// or the threshold is zero.
type InstrumentedStore struct {
	next          Store
	product       newrelic.DatastoreProduct
	collection    string
	logger        *zerolog.Logger
	slowThreshold time.Duration
}

// NewInstrumentedStore decorates next. collection is the table name reported
// to New Relic.
func NewInstrumentedStore(
	next Store,
	product newrelic.DatastoreProduct,
	collection string,
	logger *zerolog.Logger,
	slowThreshold time.Duration,
) *InstrumentedStore {
	return &InstrumentedStore{
		next:          next,
		product:       product,
		collection:    collection,
		logger:        logger,
		slowThreshold: slowThreshold,
	}
}

// observe starts a datastore segment and returns the func that ends it.
func (s *InstrumentedStore) observe(ctx context.Context, operation string) func(err error) {
	start := time.Now()
	txn := newrelic.FromContext(ctx)
	segment := newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    s.product,
		Collection: s.collection,
		Operation:  operation,
	}

	return func(err error) {
		segment.End()

		elapsed := time.Since(start)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Debug().
				Err(err).
				Str("operation", operation).
				Dur("duration", elapsed).
				Msg("store call failed")
			return
		}
		if s.slowThreshold > 0 && elapsed >= s.slowThreshold {
			s.logger.Warn().
				Str("operation", operation).
				Str("collection", s.collection).
				Dur("duration", elapsed).
				Dur("threshold", s.slowThreshold).
				Msg("slow store call")
		}
	}
}

func (s *InstrumentedStore) Put(ctx context.Context, item model.Item) (err error) {
	done := s.observe(ctx, "PutItem")
	defer func() { done(err) }()

	return s.next.Put(ctx, item)
}

func (s *InstrumentedStore) Get(ctx context.Context, userID string) (item model.Item, err error) {
	done := s.observe(ctx, "GetItem")
	defer func() { done(err) }()

	return s.next.Get(ctx, userID)
}

func (s *InstrumentedStore) Scan(ctx context.Context) (items []model.Item, err error) {
	done := s.observe(ctx, "Scan")
	defer func() { done(err) }()

	return s.next.Scan(ctx)
}

func (s *InstrumentedStore) Update(ctx context.Context, userID string, fields model.Item) (item model.Item, err error) {
	done := s.observe(ctx, "UpdateItem")
	defer func() { done(err) }()

	return s.next.Update(ctx, userID, fields)
}

func (s *InstrumentedStore) Delete(ctx context.Context, userID string) (item model.Item, err error) {
	done := s.observe(ctx, "DeleteItem")
	defer func() { done(err) }()

	return s.next.Delete(ctx, userID)
}

// Ping forwards to the wrapped store when it can ping, and succeeds otherwise.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
