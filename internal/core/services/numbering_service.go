package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/platform/metrics"
	"github.com/SscSPs/pos_ledger/internal/utils/numbering"
)

// numberingService hands out day-scoped sequence numbers. Uniqueness comes
// from the store's atomic counter increment, never from reading the current maximum.
type numberingService struct {
	BaseService
	store portsrepo.AtomicRunner
}

// NewNumberingService creates a new NumberingSvc.
func NewNumberingService(store portsrepo.AtomicRunner, opts ...Option) portssvc.NumberingSvc {
	return &numberingService{
		BaseService: newBaseService(opts...),
		store:       store,
	}
}

var _ portssvc.NumberingSvc = (*numberingService)(nil)

func (s *numberingService) NextNumber(ctx context.Context, prefix string) (string, error) {
	if err := numbering.ValidatePrefix(prefix); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var number string
	err := s.withRetry(ctx, "next_number", func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			seq, err := tx.NextSequence(ctx, prefix)
			if err != nil {
				return err
			}
			number = numbering.Format(prefix, seq)
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate number", slog.String("prefix", prefix))
		return "", err
	}

	kind, _, _ := strings.Cut(prefix, "-")
	countAllocated(numbering.Kind(kind))
	return number, nil
}

func (s *numberingService) NextNumberInTx(ctx context.Context, tx portsrepo.SequenceWriter, kind numbering.Kind, at time.Time) (string, error) {
	prefix := numbering.Prefix(kind, at, s.location)
	seq, err := tx.NextSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	return numbering.Format(prefix, seq), nil
}

// countAllocated records a number whose unit committed. Callers of
// NextNumberInTx call it once WithinTx has returned without error.
func countAllocated(kind numbering.Kind) {
	metrics.NumbersAllocated.WithLabelValues(string(kind)).Inc()
}
