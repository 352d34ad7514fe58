package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelExpense converts a domain.Expense to its row model.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		Category:    d.Category,
		Amount:      d.Amount,
		Description: d.Description,
		ExpenseDate: d.ExpenseDate,
		IsDeleted:   d.IsDeleted,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts an expenses row to a domain.Expense.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		Category:    m.Category,
		Amount:      m.Amount,
		Description: m.Description,
		ExpenseDate: m.ExpenseDate,
		IsDeleted:   m.IsDeleted,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
