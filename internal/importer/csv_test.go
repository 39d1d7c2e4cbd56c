package importer

import (
	"strings"
	"testing"
)

func TestReadRecords(t *testing.T) {
	input := "Customer_Name,EMAIL ,invoice_number\nAna,a@x.com,INV1\nLuis,l@x.com,INV2\n"

	records, err := ReadRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Header names are normalized, so mixed case and padding still address
	// the same fields.
	if records[0]["customer_name"] != "Ana" || records[0]["email"] != "a@x.com" {
		t.Errorf("unexpected first record: %v", records[0])
	}
	if records[1]["invoice_number"] != "INV2" {
		t.Errorf("unexpected second record: %v", records[1])
	}
}

func TestReadRecords_EmptyFile(t *testing.T) {
	if _, err := ReadRecords(strings.NewReader("")); err == nil {
		t.Fatal("ReadRecords expected error for empty file")
	}
}

func TestReadRecords_RaggedRow(t *testing.T) {
	input := "a,b\n1,2\n3\n"
	if _, err := ReadRecords(strings.NewReader(input)); err == nil {
		t.Fatal("ReadRecords expected error for ragged row")
	}
}
