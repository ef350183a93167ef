package repository

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/users-api/internal/config"
	"github.com/deppfellow/users-api/internal/server"
)

// DatastoreMemory labels in-memory store segments in New Relic.
const DatastoreMemory newrelic.DatastoreProduct = "Memory"

// Repositories is a container for all repository instances.
type Repositories struct {
	Users Store
}

// NewRepositories builds the user store selected by cfg.Store.Driver and
// wraps it with instrumentation.
//
// The postgres driver needs s.DB, which server.New opens for that driver.
func NewRepositories(ctx context.Context, s *server.Server) (*Repositories, error) {
	var (
		store      Store
		product    newrelic.DatastoreProduct
		collection string
	)

	switch s.Config.Store.Driver {
	case config.DriverDynamoDB:
		client, err := NewDynamoClient(ctx, s.Config.AWS)
		if err != nil {
			return nil, err
		}
		store = NewDynamoStore(client, s.Config.AWS.TableName)
		product = newrelic.DatastoreDynamoDB
		collection = s.Config.AWS.TableName

	case config.DriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("store driver %q needs a database connection", config.DriverPostgres)
		}
		store = NewPostgresStore(s.DB.Pool)
		product = newrelic.DatastorePostgres
		collection = usersTable

	case config.DriverMemory:
		store = NewMemoryStore()
		product = DatastoreMemory
		collection = s.Config.AWS.TableName

	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Config.Store.Driver)
	}

	return &Repositories{
		Users: NewInstrumentedStore(
			store,
			product,
			collection,
			s.Logger,
			s.Config.Observability.Logging.SlowQueryThreshold,
		),
	}, nil
}
