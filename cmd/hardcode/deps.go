package main

import (
	"context"
	"fmt"

	"github.com/PrintfR/HardCode/internal/config"
	"github.com/PrintfR/HardCode/internal/db"
	"github.com/PrintfR/HardCode/internal/docstore"
	"github.com/PrintfR/HardCode/internal/llm"
	"github.com/PrintfR/HardCode/internal/memstore"
	"github.com/PrintfR/HardCode/internal/server"
	"github.com/PrintfR/HardCode/internal/session"
)

// newLLMClient is replaced in tests.
var newLLMClient = llm.NewClient

// store is what every backend provides.
type store interface {
	session.Store
	server.UserStore
}

// openedStore is a connected backend with its lifecycle hooks. ping and
// close are nil for the in-memory store.
type openedStore struct {
	store
	ping  func(ctx context.Context) error
	close func()
}

func openStore(ctx context.Context, cfg *config.Config) (*openedStore, error) {
	switch cfg.Backend() {
	case config.BackendMemory:
		return &openedStore{store: memstore.New()}, nil
	case config.BackendPostgres:
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &openedStore{store: pg, ping: pg.Ping, close: pg.Close}, nil
	case config.BackendMongo:
		mongo, err := docstore.Connect(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &openedStore{
			store: mongo,
			ping:  mongo.Ping,
			close: func() { _ = mongo.Close(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unsupported DATABASE_URL scheme")
}

func (s *openedStore) Close() {
	if s.close != nil {
		s.close()
	}
}
