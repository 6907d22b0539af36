package lab

import (
	"errors"
	"testing"
	"time"
)

func TestPatientValidate(t *testing.T) {
	ok := Patient{Name: "Sample", Age: "30", Phone: "0000", Date: "2024-01-01"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := ok
	missing.Phone = "  "
	err := missing.Validate()
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestNewRecordCopiesResults(t *testing.T) {
	results := []Result{{Test: "RBS", Value: "90"}}
	rec := NewRecord(Patient{Name: "Sample"}, results, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	results[0].Value = "999"
	if rec.Results[0].Value != "90" {
		t.Fatalf("record must not alias caller slice, got %q", rec.Results[0].Value)
	}
	if rec.ID.String() == "" {
		t.Fatalf("record id missing")
	}

	row := rec.Flatten()
	if row["name"] != "Sample" || row["RBS"] != "90" {
		t.Fatalf("unexpected flattened row: %v", row)
	}
}

func TestToday(t *testing.T) {
	if got := Today(time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC)); got != "2024-03-07" {
		t.Fatalf("unexpected date: %s", got)
	}
}
