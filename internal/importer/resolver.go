// billing-api/internal/importer/resolver.go
package importer

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billing-api/models"
)

// Resolver links one record to its Client, Invoice and optional Transaction
// rows inside the transaction it was created with, creating each entity
// lazily on first reference.
//
// Conflict policy, applied consistently: Client and Invoice inserts use
// ON CONFLICT DO NOTHING and re-fetch the winning row (conflict means
// "already exists, reuse"); Transaction inserts use ON CONFLICT DO NOTHING
// without re-fetch (first write wins, the new data is discarded). A lost race
// with a concurrent batch therefore never fails a record.
type Resolver struct {
	tx *gorm.DB
}

func NewResolver(tx *gorm.DB) *Resolver {
	return &Resolver{tx: tx}
}

// Resolution reports what one record resolved to.
type Resolution struct {
	ClientID           uint
	InvoiceID          uint
	TransactionCreated bool
}

// Resolve finds or creates the record's entities in dependency order:
// Client, then Invoice linked to that client, then optionally the
// Transaction linked to that invoice.
func (r *Resolver) Resolve(rec *Record) (*Resolution, error) {
	clientID, err := r.resolveClient(rec)
	if err != nil {
		return nil, err
	}

	invoiceID, err := r.resolveInvoice(rec, clientID)
	if err != nil {
		return nil, err
	}

	created, err := r.resolveTransaction(rec, invoiceID)
	if err != nil {
		return nil, err
	}

	return &Resolution{ClientID: clientID, InvoiceID: invoiceID, TransactionCreated: created}, nil
}

func (r *Resolver) resolveClient(rec *Record) (uint, error) {
	var client models.Client
	err := r.tx.Where("email = ?", rec.Email).First(&client).Error
	if err == nil {
		return client.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	client = models.Client{
		Name:             rec.CustomerName,
		Address:          rec.Address,
		City:             rec.City,
		Phone:            rec.Phone,
		Email:            rec.Email,
		RegistrationDate: rec.RegistrationDate,
	}
	result := r.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&client)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		// A concurrent writer created this client between our lookup and
		// insert; reuse its row. If the re-fetch still misses, the identity
		// key is held by a row we cannot see (a soft-deleted leftover) and
		// only this record is affected, not the batch.
		err := r.tx.Where("email = ?", rec.Email).First(&client).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &ValidationError{Field: "email", Reason: fmt.Sprintf("client %q conflicts with a deleted record", rec.Email)}
		}
		if err != nil {
			return 0, err
		}
	}
	return client.ID, nil
}

func (r *Resolver) resolveInvoice(rec *Record, clientID uint) (uint, error) {
	var invoice models.Invoice
	err := r.tx.Where("invoice_number = ?", rec.InvoiceNumber).First(&invoice).Error
	if err == nil {
		// Existing data wins, including its client linkage.
		return invoice.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	invoice = models.Invoice{
		ClientID:      clientID,
		InvoiceNumber: rec.InvoiceNumber,
		TotalAmount:   rec.TotalAmount,
		PaidAmount:    rec.PaidAmount,
		Status:        rec.InvoiceStatus,
		IssueDate:     rec.IssueDate,
		DueDate:       rec.DueDate,
		Description:   rec.Description,
	}
	result := r.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "invoice_number"}},
		DoNothing: true,
	}).Create(&invoice)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		err := r.tx.Where("invoice_number = ?", rec.InvoiceNumber).First(&invoice).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &ValidationError{Field: "invoice_number", Reason: fmt.Sprintf("invoice %q conflicts with a deleted record", rec.InvoiceNumber)}
		}
		if err != nil {
			return 0, err
		}
	}
	return invoice.ID, nil
}

// resolveTransaction inserts the record's payment, if it carries one. An
// unknown platform or an absent payment skips the insert without failing the
// record. Returns whether a new row was actually written.
func (r *Resolver) resolveTransaction(rec *Record, invoiceID uint) (bool, error) {
	if rec.Transaction == nil {
		return false, nil
	}

	var platform models.Platform
	err := r.tx.Where("LOWER(name) = LOWER(?)", rec.Transaction.PlatformName).First(&platform).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	transaction := models.Transaction{
		InvoiceID:  invoiceID,
		PlatformID: platform.ID,
		Reference:  rec.Transaction.Reference,
		Amount:     rec.Transaction.Amount,
		Date:       rec.Transaction.Date,
		Status:     rec.Transaction.Status,
		Notes:      rec.Transaction.Notes,
	}
	result := r.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoNothing: true,
	}).Create(&transaction)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
