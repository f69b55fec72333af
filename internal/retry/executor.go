package retry

import (
	"context"
	"time"

	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// Executor runs an operation, retrying transient failures with backoff.
// Safe for concurrent use; WithOnRetry returns a copy.
type Executor struct {
	classifier taxlien.ErrorClassifier
	strategy   taxlien.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a retry executor. Panics if classifier or strategy is nil.
func NewExecutor(classifier taxlien.ErrorClassifier, strategy taxlien.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// NewConnectExecutor returns the executor used by all connectors. It only
// wraps establishing the pool; fetches and load stages run once.
func NewConnectExecutor() *Executor {
	return NewExecutor(
		NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(taxlien.DefaultRetryMaxAttempts,
			WithInitialDelay(taxlien.DefaultRetryInitialDelay),
			WithMaxDelay(taxlien.DefaultRetryMaxDelay),
		),
	)
}

// WithOnRetry returns a new Executor that calls callback before each retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails fatally, the context ends,
// or the strategy's attempts are used up. The last error is returned.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
