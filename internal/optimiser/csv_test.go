package optimiser

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAllocationCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allocations.csv")
	rows := AllocationTable(sampleResult())

	if err := WriteAllocationCSV(path, rows); err != nil {
		t.Fatalf("WriteAllocationCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "deficit_habitat" || records[0][10] != "baseline_units_incurred" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[2][5] != "Meadow Bank" {
		t.Fatalf("unexpected bank column: %v", records[2])
	}
	if records[2][8] != "16800.000000" {
		t.Fatalf("unexpected cost formatting: %v", records[2][8])
	}
}

func TestWriteAllocationCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteAllocationCSV(path, nil); err != nil {
		t.Fatalf("WriteAllocationCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}
