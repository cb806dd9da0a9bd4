package ports

import "context"

// TxManager runs fn atomically. Repositories called with the ctx passed to fn
// take part in the same transaction; a nested RunInTx joins it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
