// Package retry provides automatic retry logic with exponential backoff for
// transient failures of the HTTP content loader and of PostgreSQL connections.
//
// # Example Usage
//
//	executor := retry.NewExecutor(
//	    retry.NewHTTPErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
//
// # Error Classification
//
// PostgreSQLErrorClassifier recognizes transient PostgreSQL SQLSTATE classes
// and network failures. HTTPErrorClassifier recognizes network failures and
// the gateway statuses 502, 503 and 504.
package retry
