package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/utils/numbering"
)

// NumberingSvc allocates human-readable invoice and draft numbers.
type NumberingSvc interface {
	// NextNumber allocates the next number for prefix (e.g. INV-20250615) in its own atomic unit.
	NextNumber(ctx context.Context, prefix string) (string, error)

	// NextNumberInTx allocates inside an existing unit so the number is only
	// consumed if the enclosing unit commits.
	NextNumberInTx(ctx context.Context, tx repositories.SequenceWriter, kind numbering.Kind, at time.Time) (string, error)
}
