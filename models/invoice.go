// billing-api/models/invoice.go
package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents one bill issued to a client. InvoiceNumber is globally
// unique regardless of which batch created the row.
//
// Date fields are kept as presented in the source data; the loader never
// reformats them. Amount columns are unconstrained numeric so the stored
// value keeps exactly the precision the input carried.
type Invoice struct {
	gorm.Model
	ClientID      uint            `json:"clientId" gorm:"not null;index"`
	Client        Client          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	InvoiceNumber string          `json:"invoiceNumber" gorm:"uniqueIndex;not null"`
	BillingPeriod string          `json:"billingPeriod"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:numeric;not null"`
	PaidAmount    decimal.Decimal `json:"paidAmount" gorm:"type:numeric"`
	Status        string          `json:"status" gorm:"default:'pending'"`
	IssueDate     string          `json:"issueDate"`
	DueDate       string          `json:"dueDate"`
	Description   string          `json:"description"`

	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}
