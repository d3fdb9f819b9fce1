package backend

import (
	"context"
	"errors"
	"fmt"

	"expensetracker/internal/events"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/postgres"
	"expensetracker/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend opens the configured store, connects the optional event
// publisher and builds the expense service on top of both.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{
		services.WithStrictDelete(config.StrictDelete),
		services.WithLogger(f.logger),
	}
	cleanups := []CleanupFunc{}
	if closer, ok := store.(storage.Closer); ok {
		cleanups = append(cleanups, closer.Close)
	}

	// Events are optional: a broker that is down must not keep the API from starting
	eventsEnabled := false
	if config.AMQPURL != "" {
		client, err := events.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				applog.FieldExchange, config.AMQPExchange,
				applog.FieldQueue, config.AMQPQueue)
			opts = append(opts, services.WithPublisher(client))
			cleanups = append([]CleanupFunc{client.Close}, cleanups...)
			eventsEnabled = true
		}
	}

	f.logger.Info("Initialized backend",
		applog.FieldBackend, config.Type.String(),
		applog.FieldEventsEnabled, eventsEnabled,
		applog.FieldStrictDelete, config.StrictDelete)

	return &BackendResult{
		Store:   store,
		Service: services.NewExpenseService(store, opts...),
		Events:  eventsEnabled,
		Cleanup: joinCleanups(cleanups),
	}, nil
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (storage.ExpenseStore, error) {
	switch config.Type {
	case MemoryBackend:
		return memory.New(), nil
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Opened SQLite store", applog.FieldDBPath, config.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := postgres.NewRepository(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Opened Postgres store")
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// joinCleanups runs every cleanup in order and joins their errors.
func joinCleanups(fns []CleanupFunc) CleanupFunc {
	if len(fns) == 0 {
		return nil
	}
	return func() error {
		var errs []error
		for _, fn := range fns {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
