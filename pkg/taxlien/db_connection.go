package taxlien

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of a pgx connection used by the store.
// *pgxpool.Conn, *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ConnPool hands out connections scoped to a single load stage.
//
// Thread-Safety: implementations follow pgxpool.Pool and are safe for
// concurrent use, although the loader acquires connections sequentially.
type ConnPool interface {
	// Acquire obtains a dedicated connection. The caller must call
	// Release on the returned connection when the stage ends.
	Acquire(ctx context.Context) (PooledConnection, error)

	// Close closes all connections in the pool.
	Close()
}

// PooledConnection represents a connection acquired from a pool.
// The caller must call Release() when done to return it to the pool.
type PooledConnection interface {
	Querier

	// Release returns the connection to the pool.
	// After calling Release, the connection should not be used.
	Release()
}
