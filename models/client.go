// billing-api/models/client.go

package models

import "gorm.io/gorm"

// Client represents a billed customer. Email is the identity key used by the
// bulk loader: re-importing the same email must resolve to the same row.
type Client struct {
	gorm.Model
	Name             string `json:"name" gorm:"not null"`
	DocumentNumber   string `json:"documentNumber"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	Email            string `json:"email" gorm:"uniqueIndex"`
	RegistrationDate string `json:"registrationDate"`

	Invoices []Invoice `json:"invoices,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}
