// billing-api/models/platform.go
package models

import "gorm.io/gorm"

// Platform is the payment platform lookup table (Nequi, Daviplata, ...).
// The bulk loader only reads it, never writes it.
type Platform struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}
