package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelTransaction converts a domain.Transaction header to its row model.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		Number:          d.Number,
		Status:          string(d.Status),
		CashierID:       d.CashierID,
		CashierName:     d.CashierName,
		PaymentMethod:   string(d.PaymentMethod),
		Subtotal:        d.Subtotal,
		Tax:             d.Tax,
		Service:         d.Service,
		Discount:        d.Discount,
		Total:           d.Total,
		CashReceived:    d.CashReceived,
		CashChange:      d.CashChange,
		Notes:           d.Notes,
		TransactionDate: d.TransactionDate,
		StockCommitted:  d.StockCommitted,
		IsDeleted:       d.IsDeleted,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a transactions row to a domain.Transaction without items.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		Number:          m.Number,
		Status:          domain.TransactionStatus(m.Status),
		CashierID:       m.CashierID,
		CashierName:     m.CashierName,
		PaymentMethod:   domain.PaymentMethod(m.PaymentMethod),
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		Service:         m.Service,
		Discount:        m.Discount,
		Total:           m.Total,
		CashReceived:    m.CashReceived,
		CashChange:      m.CashChange,
		Notes:           m.Notes,
		TransactionDate: m.TransactionDate,
		StockCommitted:  m.StockCommitted,
		IsDeleted:       m.IsDeleted,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionItem converts a domain.TransactionItem to its row model.
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem(d)
}

// ToDomainTransactionItem converts a transaction_items row to a domain.TransactionItem.
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem(m)
}

// ToDomainTransactionItemSlice converts a slice of item rows.
func ToDomainTransactionItemSlice(ms []models.TransactionItem) []domain.TransactionItem {
	ds := make([]domain.TransactionItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionItem(m)
	}
	return ds
}

// ToDomainProduct converts a products row to a domain.Product.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product(m)
}
