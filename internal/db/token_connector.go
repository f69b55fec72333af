package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/taxlien/internal/retry"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// tokenExpiryWarning is the remaining lifetime below which a freshly acquired
// token is reported through the logger.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *taxlien.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
	logger        taxlien.Logger
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *taxlien.ConnectionConfig, tokenProvider TokenProvider, providerName string) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: retry.NewConnectExecutor(),
		providerName:  providerName,
	}
}

// WithLogger sets the logger used for token expiry warnings and retries.
func (c *TokenBasedConnector) WithLogger(logger taxlien.Logger) *TokenBasedConnector {
	c.logger = logger
	c.retryExecutor = c.retryExecutor.WithOnRetry(retryLogger(logger))
	return c
}

// Connect acquires a fresh token on every attempt, so a retry after an expired
// token does not reuse it.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning && c.logger != nil {
			c.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		pool, err = openPool(ctx, BuildConnectionString(&configWithToken), c.config)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pool, nil
}
