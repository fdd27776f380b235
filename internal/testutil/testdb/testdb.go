//go:build integration

package testdb

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"franchiseops/internal/db"
)

type DBHandle struct {
	Pool   *pgxpool.Pool
	DSN    string
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start runs a throwaway postgres, applies the embedded migrations and
// returns a connected pool.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("franchiseops"),
		postgres.WithUsername("franchiseops"),
		postgres.WithPassword("franchiseops"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	if err := db.Migrate(ctx, uri); err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	pool, err := db.Connect(ctx, uri)
	if err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	return &DBHandle{
		Pool:   pool,
		DSN:    uri,
		cancel: cancel,
		stop:   pg.Terminate,
	}, nil
}
