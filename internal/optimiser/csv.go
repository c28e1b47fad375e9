package optimiser

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteAllocationCSV writes the flat allocation table to a CSV file.
func WriteAllocationCSV(path string, rows []TableRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"deficit_habitat",
		"deficit_source",
		"supply_habitat",
		"units",
		"supply_source",
		"bank_name",
		"inventory_row_id",
		"unit_price",
		"cost",
		"baseline_habitat",
		"baseline_units_incurred",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.DeficitHabitat,
			r.DeficitSource,
			r.SupplyHabitat,
			fmtFloat(r.Units),
			r.SupplySource,
			r.BankName,
			r.InventoryRowID,
			fmtFloat(r.UnitPrice),
			fmtFloat(r.Cost),
			r.BaselineHabitat,
			fmtFloat(r.BaselineUnits),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
