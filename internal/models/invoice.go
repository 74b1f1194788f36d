package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Only InvoicePaid locks the record.
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// InvoiceStatuses lists every accepted status value.
var InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceCancelled}

// ValidInvoiceStatus reports whether s is one of InvoiceStatuses.
func ValidInvoiceStatus(s string) bool {
	for _, v := range InvoiceStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Invoice header. Subtotal, TaxAmount and TotalAmount are always derived
// from Items by the service layer.
type Invoice struct {
	Base
	Number      string          `gorm:"size:32;not null;uniqueIndex" json:"number"`
	CustomerID  string          `gorm:"size:36;not null;index" json:"customerId"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	IssueDate   time.Time       `gorm:"not null;index" json:"issueDate"`
	DueDate     time.Time       `gorm:"not null" json:"dueDate"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"taxAmount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalAmount"`
	Status      string          `gorm:"size:16;not null;index" json:"status"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// IsPaid reports whether the invoice is locked against changes.
func (i *Invoice) IsPaid() bool { return i.Status == InvoicePaid }

// InvoiceItem is one line of an invoice. Position keeps the request order.
type InvoiceItem struct {
	Base
	InvoiceID string          `gorm:"size:36;not null;index" json:"invoiceId"`
	ProductID string          `gorm:"size:36;not null;index" json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Position  int             `gorm:"not null" json:"position"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
}
