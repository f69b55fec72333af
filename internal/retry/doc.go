// Package retry retries database connection establishment with exponential
// backoff when the failure is transient (server starting up, connection
// refused, too many connections).
//
// Only connecting is retried. Statements executed by the loader and HTTP
// requests made by the fetcher fail on the first error.
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
