// billing-api/internal/importer/record.go
package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RawRecord is one CSV row keyed by header name, exactly as produced by
// ReadRecords.
type RawRecord map[string]string

// TransactionFields carries the optional payment part of a record. It is only
// populated when platform name, transaction reference and amount are all
// present; any one missing means the invoice simply has no recorded payment.
type TransactionFields struct {
	PlatformName string
	Reference    string
	Amount       decimal.Decimal
	Date         string
	Status       string
	Notes        string
}

// Record is the validated, typed form of one input row. Resolution never
// touches the raw string map; everything is checked here first so a bad row
// fails before any database write.
type Record struct {
	CustomerName     string
	Email            string
	Phone            string
	Address          string
	City             string
	RegistrationDate string

	InvoiceNumber string
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	InvoiceStatus string
	IssueDate     string
	DueDate       string
	Description   string

	Transaction *TransactionFields
}

// parseAmount parses a currency field. Exponential notation is rejected and
// the original precision is preserved; there is no silent rounding.
func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, &ValidationError{Field: field, Reason: "amount is required"}
	}
	if strings.ContainsAny(value, "eE") {
		return decimal.Zero, &ValidationError{Field: field, Reason: "exponential notation is not allowed"}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: fmt.Sprintf("invalid amount %q", value)}
	}
	return d, nil
}

// parseRecord validates one raw row and returns its typed form. All fields
// are trimmed before comparison or insertion. Date fields are kept exactly as
// presented.
func parseRecord(raw RawRecord) (*Record, error) {
	get := func(key string) string { return strings.TrimSpace(raw[key]) }

	rec := &Record{
		CustomerName:     get("customer_name"),
		Email:            get("email"),
		Phone:            get("phone"),
		Address:          get("address"),
		City:             get("city"),
		RegistrationDate: get("registration_date"),
		InvoiceNumber:    get("invoice_number"),
		InvoiceStatus:    get("invoice_status"),
		IssueDate:        get("issue_date"),
		DueDate:          get("due_date"),
		Description:      get("description"),
	}

	if rec.CustomerName == "" {
		return nil, &ValidationError{Field: "customer_name", Reason: "client name is required"}
	}
	if rec.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "client identity is required"}
	}
	if rec.InvoiceNumber == "" {
		return nil, &ValidationError{Field: "invoice_number", Reason: "invoice number is required"}
	}

	total, err := parseAmount("total_amount", get("total_amount"))
	if err != nil {
		return nil, err
	}
	rec.TotalAmount = total

	// An absent paid amount is absence of payment, not malformed input.
	if paid := get("paid_amount"); paid != "" {
		rec.PaidAmount, err = parseAmount("paid_amount", paid)
		if err != nil {
			return nil, err
		}
	}

	platform := get("platform_name")
	reference := get("transaction_reference")
	amount := get("transaction_amount")
	if platform == "" || reference == "" || amount == "" {
		// Unpaid invoices legitimately carry no transaction.
		return rec, nil
	}

	txAmount, err := parseAmount("transaction_amount", amount)
	if err != nil {
		return nil, err
	}
	rec.Transaction = &TransactionFields{
		PlatformName: platform,
		Reference:    reference,
		Amount:       txAmount,
		Date:         get("transaction_date"),
		Status:       get("transaction_status"),
		Notes:        get("notes"),
	}
	return rec, nil
}
