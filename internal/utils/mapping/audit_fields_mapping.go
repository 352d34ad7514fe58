package mapping

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// dbTimestamp normalises an instant to what a timestamptz column stores: UTC
// at microsecond precision. Cursor tokens built from a value read back must
// compare equal to the value that was written.
func dbTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// ToModelAuditFields converts the audit stamps of a sale or expense to their row form.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     dbTimestamp(d.CreatedAt),
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: dbTimestamp(d.LastUpdatedAt),
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts row audit columns back, always in UTC.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt.UTC(),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt.UTC(),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}
