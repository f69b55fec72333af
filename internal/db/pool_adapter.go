package db

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// PoolAdapter adapts *pgxpool.Pool to taxlien.ConnPool.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool   *pgxpool.Pool
	closer io.Closer
}

// NewPoolAdapter wraps pool. If closer is non-nil it is closed after the pool,
// which is how the Cloud SQL dialer gets released.
func NewPoolAdapter(pool *pgxpool.Pool, closer io.Closer) *PoolAdapter {
	return &PoolAdapter{pool: pool, closer: closer}
}

// Acquire obtains a dedicated connection from the pool.
func (p *PoolAdapter) Acquire(ctx context.Context) (taxlien.PooledConnection, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Close closes the pool and then the optional closer.
func (p *PoolAdapter) Close() {
	p.pool.Close()
	if p.closer != nil {
		_ = p.closer.Close()
	}
}

// Open connects with the connector chosen for config and returns a ConnPool.
func Open(ctx context.Context, config *taxlien.ConnectionConfig, logger taxlien.Logger) (*PoolAdapter, error) {
	connector, err := NewConnector(config)
	if err != nil {
		return nil, err
	}
	switch c := connector.(type) {
	case *StandardConnector:
		c.WithLogger(logger)
	case *TokenBasedConnector:
		c.WithLogger(logger)
	}
	logger.Verbose("Connecting to %s as %s (%s auth)", MaskPassword(config), config.Username, config.AuthMethod)

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	closer, _ := connector.(io.Closer)
	return NewPoolAdapter(pool, closer), nil
}
