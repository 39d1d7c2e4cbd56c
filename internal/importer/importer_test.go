package importer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"billing-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	models.SeedPlatforms(db)
	return db
}

func fullRaw(overrides RawRecord) RawRecord {
	raw := RawRecord{
		"customer_name":  "Ana",
		"email":          "a@x.com",
		"invoice_number": "INV1",
		"total_amount":   "100",
		"paid_amount":    "50",
		"invoice_status": "partial",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	return raw
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestRun_SameClientTwoInvoices(t *testing.T) {
	db := setupTestDB(t)

	result, err := Run(db, []RawRecord{
		fullRaw(nil),
		fullRaw(RawRecord{"invoice_number": "INV2", "total_amount": "30", "paid_amount": "30", "invoice_status": "paid"}),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Success || result.Processed != 2 || result.Errors != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if n := countRows(t, db, &models.Client{}); n != 1 {
		t.Errorf("client rows = %d, want 1", n)
	}

	var invoices []models.Invoice
	if err := db.Order("invoice_number").Find(&invoices).Error; err != nil {
		t.Fatalf("fetch invoices: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("invoice rows = %d, want 2", len(invoices))
	}
	if invoices[0].ClientID != invoices[1].ClientID {
		t.Errorf("invoices linked to different clients: %d vs %d", invoices[0].ClientID, invoices[1].ClientID)
	}
}

func TestRun_IdempotentAcrossBatches(t *testing.T) {
	db := setupTestDB(t)

	first, err := Run(db, []RawRecord{fullRaw(nil)})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := Run(db, []RawRecord{fullRaw(nil)})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if first.Processed != 1 || second.Processed != 1 {
		t.Fatalf("unexpected processed counts: %d, %d", first.Processed, second.Processed)
	}

	if n := countRows(t, db, &models.Client{}); n != 1 {
		t.Errorf("client rows = %d, want 1", n)
	}
	if n := countRows(t, db, &models.Invoice{}); n != 1 {
		t.Errorf("invoice rows = %d, want 1", n)
	}
}

func TestRun_TransactionFirstWriteWins(t *testing.T) {
	db := setupTestDB(t)

	withTx := func(amount string) RawRecord {
		return fullRaw(RawRecord{
			"platform_name":         "Nequi",
			"transaction_reference": "TX1",
			"transaction_amount":    amount,
			"transaction_status":    "completed",
		})
	}

	if _, err := Run(db, []RawRecord{withTx("50")}); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if _, err := Run(db, []RawRecord{withTx("999")}); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	var transactions []models.Transaction
	if err := db.Find(&transactions).Error; err != nil {
		t.Fatalf("fetch transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("transaction rows = %d, want 1", len(transactions))
	}
	if transactions[0].Amount.String() != "50" {
		t.Errorf("transaction amount = %s, want the original 50", transactions[0].Amount)
	}
}

func TestRun_OrderPreservation(t *testing.T) {
	db := setupTestDB(t)

	records := []RawRecord{
		fullRaw(RawRecord{"total_amount": "not-a-number"}),
		fullRaw(RawRecord{"email": "b@x.com", "invoice_number": "INV2"}),
		fullRaw(RawRecord{"email": "c@x.com", "invoice_number": "INV3"}),
	}

	result, err := Run(db, records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 2 {
		t.Errorf("processed = %d, want 2", result.Processed)
	}
	if result.Errors != 1 || len(result.ErrorDetails) != 1 {
		t.Fatalf("unexpected errors: %+v", result.ErrorDetails)
	}
	if result.ErrorDetails[0].Row != 1 {
		t.Errorf("error row = %d, want 1", result.ErrorDetails[0].Row)
	}
}

func TestRun_UnknownPlatformStillProcessesRow(t *testing.T) {
	db := setupTestDB(t)

	result, err := Run(db, []RawRecord{fullRaw(RawRecord{
		"platform_name":         "NoSuchPlatform",
		"transaction_reference": "TX1",
		"transaction_amount":    "50",
	})})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 || result.Errors != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if n := countRows(t, db, &models.Client{}); n != 1 {
		t.Errorf("client rows = %d, want 1", n)
	}
	if n := countRows(t, db, &models.Invoice{}); n != 1 {
		t.Errorf("invoice rows = %d, want 1", n)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 0 {
		t.Errorf("transaction rows = %d, want 0", n)
	}
}

func TestRun_PlatformNameCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)

	result, err := Run(db, []RawRecord{fullRaw(RawRecord{
		"platform_name":         "nequi",
		"transaction_reference": "TX1",
		"transaction_amount":    "50",
	})})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Errorf("transaction rows = %d, want 1", n)
	}
}

func TestRun_InfrastructureErrorRollsBackBatch(t *testing.T) {
	db := setupTestDB(t)

	// Breaking the transactions table mid-schema makes the third record's
	// insert fail with a non-validation error, which must abort and roll
	// back the whole batch.
	if err := db.Migrator().DropTable(&models.Transaction{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	records := []RawRecord{
		fullRaw(nil),
		fullRaw(RawRecord{"email": "b@x.com", "invoice_number": "INV2"}),
		fullRaw(RawRecord{
			"email":                 "c@x.com",
			"invoice_number":        "INV3",
			"platform_name":         "Nequi",
			"transaction_reference": "TX1",
			"transaction_amount":    "50",
		}),
	}

	result, err := Run(db, records)
	if err == nil {
		t.Fatalf("Run expected infrastructure error, got result %+v", result)
	}
	var infraErr *InfrastructureError
	if !errors.As(err, &infraErr) {
		t.Fatalf("error = %T, want *InfrastructureError", err)
	}

	// No partial success: earlier valid rows must not persist.
	if n := countRows(t, db, &models.Client{}); n != 0 {
		t.Errorf("client rows after rollback = %d, want 0", n)
	}
	if n := countRows(t, db, &models.Invoice{}); n != 0 {
		t.Errorf("invoice rows after rollback = %d, want 0", n)
	}
}

func TestRun_SoftDeletedClientFailsRowNotBatch(t *testing.T) {
	db := setupTestDB(t)

	if _, err := Run(db, []RawRecord{fullRaw(nil)}); err != nil {
		t.Fatalf("seed Run failed: %v", err)
	}
	// A soft delete keeps the row, so its unique email still blocks inserts
	// while normal lookups no longer find it.
	if err := db.Where("email = ?", "a@x.com").Delete(&models.Client{}).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	result, err := Run(db, []RawRecord{
		fullRaw(nil),
		fullRaw(RawRecord{"email": "b@x.com", "invoice_number": "INV2"}),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 || result.Errors != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ErrorDetails[0].Row != 1 {
		t.Errorf("error row = %d, want 1", result.ErrorDetails[0].Row)
	}
	if !strings.Contains(result.ErrorDetails[0].Error, "deleted record") {
		t.Errorf("error = %q, want mention of the deleted record", result.ErrorDetails[0].Error)
	}

	// The unaffected row must still land.
	var n int64
	if err := db.Model(&models.Client{}).Where("email = ?", "b@x.com").Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("client rows for b@x.com = %d, want 1", n)
	}
}

func TestRun_ReimportAfterHardDelete(t *testing.T) {
	db := setupTestDB(t)

	if _, err := Run(db, []RawRecord{fullRaw(nil)}); err != nil {
		t.Fatalf("seed Run failed: %v", err)
	}
	if err := db.Unscoped().Where("email = ?", "a@x.com").Delete(&models.Client{}).Error; err != nil {
		t.Fatalf("hard delete client: %v", err)
	}
	if err := db.Unscoped().Where("invoice_number = ?", "INV1").Delete(&models.Invoice{}).Error; err != nil {
		t.Fatalf("hard delete invoice: %v", err)
	}

	result, err := Run(db, []RawRecord{fullRaw(nil)})
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if !result.Success || result.Processed != 1 || result.Errors != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if n := countRows(t, db, &models.Client{}); n != 1 {
		t.Errorf("client rows = %d, want 1", n)
	}
	if n := countRows(t, db, &models.Invoice{}); n != 1 {
		t.Errorf("invoice rows = %d, want 1", n)
	}
}

func TestRun_AmountPrecisionRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	result, err := Run(db, []RawRecord{fullRaw(RawRecord{
		"total_amount": "0.001",
		"paid_amount":  "99.999",
	})})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var invoice models.Invoice
	if err := db.Where("invoice_number = ?", "INV1").First(&invoice).Error; err != nil {
		t.Fatalf("fetch invoice: %v", err)
	}
	if got := invoice.TotalAmount.String(); got != "0.001" {
		t.Errorf("total amount = %s, want 0.001", got)
	}
	if got := invoice.PaidAmount.String(); got != "99.999" {
		t.Errorf("paid amount = %s, want 99.999", got)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	db := setupTestDB(t)

	result, err := Run(db, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Success || result.Processed != 0 || result.Errors != 0 || len(result.ErrorDetails) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
