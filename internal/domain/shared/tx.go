package shared

import "context"

// TransactionManager runs fn in a single database transaction. Repositories
// called with the ctx passed to fn participate in that transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
