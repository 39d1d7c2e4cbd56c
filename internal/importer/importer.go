// billing-api/internal/importer/importer.go

// Package importer implements the bulk CSV loader: it reconciles flat
// client/invoice/transaction rows into the relational schema without ever
// creating duplicate identity keys, inside a single whole-batch transaction.
package importer

import (
	"errors"

	"gorm.io/gorm"
)

// RowError is one failed input row in the summary, 1-based.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result is the bulk-load summary returned to the HTTP layer. Processed
// counts rows that reached a resolved state, including rows whose optional
// transaction was skipped; Errors counts validation failures. ErrorDetails is
// ordered by row number.
type Result struct {
	Success      bool       `json:"success"`
	Processed    int        `json:"processed"`
	Errors       int        `json:"errors"`
	ErrorDetails []RowError `json:"errorDetails"`
}

// Run drives the resolver over every record, in input order, inside one
// transaction. Later records may depend on entities created by earlier ones
// in the same batch, so no parallel resolution happens.
//
// A ValidationError skips the row and the batch continues; validation runs
// before any write for that row, so there is nothing to undo. Any other
// database error is infrastructural: the whole batch is rolled back,
// including rows that had already resolved, and Run returns an
// *InfrastructureError.
func Run(db *gorm.DB, records []RawRecord) (*Result, error) {
	result := &Result{ErrorDetails: []RowError{}}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, &InfrastructureError{Op: "begin transaction", Err: tx.Error}
	}

	resolver := NewResolver(tx)
	for i, raw := range records {
		row := i + 1

		rec, err := parseRecord(raw)
		if err != nil {
			result.ErrorDetails = append(result.ErrorDetails, RowError{Row: row, Error: err.Error()})
			continue
		}

		if _, err := resolver.Resolve(rec); err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				result.ErrorDetails = append(result.ErrorDetails, RowError{Row: row, Error: vErr.Error()})
				continue
			}
			tx.Rollback()
			return nil, &InfrastructureError{Op: "record resolution", Err: err}
		}
		result.Processed++
	}

	if err := tx.Commit().Error; err != nil {
		return nil, &InfrastructureError{Op: "commit", Err: err}
	}

	result.Success = true
	result.Errors = len(result.ErrorDetails)
	return result, nil
}
