// billing-api/models/transaction.go
package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction represents one payment recorded against an invoice through a
// payment platform. Reference is the identity key; duplicate references are
// discarded on insert (first write wins).
type Transaction struct {
	gorm.Model
	InvoiceID  uint            `json:"invoiceId" gorm:"not null;index"`
	Invoice    Invoice         `json:"invoice,omitempty" gorm:"foreignKey:InvoiceID"`
	PlatformID uint            `json:"platformId" gorm:"not null"`
	Platform   Platform        `json:"platform,omitempty" gorm:"foreignKey:PlatformID"`
	Reference  string          `json:"reference" gorm:"uniqueIndex;not null"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	Date       string          `json:"date"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes"`
}
