package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ReportingRepository defines the read model used by the reporting aggregator.
type ReportingRepository interface {
	// GetSalesSnapshot returns the non-deleted COMPLETED transactions (with items)
	// whose transaction date is in [from, to), and the non-deleted expenses dated
	// in the same range, all read from one consistent snapshot.
	GetSalesSnapshot(ctx context.Context, from, to time.Time) (*domain.SalesSnapshot, error)
}
