package repositories

import "context"

// AtomicRunner runs a unit of work so that either all of its writes become
// visible together or none of them do. fn must only use the LedgerTx it is
// given; returning an error discards every write made through it.
type AtomicRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
