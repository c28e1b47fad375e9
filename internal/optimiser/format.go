package optimiser

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TableRow is one flat row of the allocation table, the shape consumed by
// the pricing summary, PDF, and CSV renderers downstream.
type TableRow struct {
	DeficitHabitat  string  `json:"deficit_habitat"`
	DeficitSource   string  `json:"deficit_source"`
	SupplyHabitat   string  `json:"supply_habitat"`
	Units           float64 `json:"units"`
	SupplySource    string  `json:"supply_source"`
	BankName        string  `json:"bank_name"`
	InventoryRowID  string  `json:"inventory_row_id"`
	UnitPrice       float64 `json:"unit_price"`
	Cost            float64 `json:"cost"`
	BaselineHabitat string  `json:"baseline_habitat"`
	BaselineUnits   float64 `json:"baseline_units_incurred"`
}

// AllocationTable flattens a result into table rows, one per record, in
// allocation order.
func AllocationTable(res *Result) []TableRow {
	rows := make([]TableRow, 0, len(res.Allocations))
	for _, a := range res.Allocations {
		rows = append(rows, TableRow{
			DeficitHabitat:  a.DeficitHabitat,
			DeficitSource:   string(a.DeficitSource),
			SupplyHabitat:   a.SupplyHabitat,
			Units:           a.Units,
			SupplySource:    string(a.SupplySource),
			BankName:        a.BankName,
			InventoryRowID:  a.InventoryRowID,
			UnitPrice:       a.UnitPrice,
			Cost:            a.Cost,
			BaselineHabitat: a.BaselineHabitat,
			BaselineUnits:   a.BaselineUnits,
		})
	}
	return rows
}

// BankCost aggregates spend against one bank.
type BankCost struct {
	BankID   string  `json:"bank_id"`
	BankName string  `json:"bank_name"`
	Units    float64 `json:"units"`
	Cost     float64 `json:"cost"`
}

// Summary is the headline view of a quote.
type Summary struct {
	TotalCost       float64    `json:"total_cost"`
	AllocationCount int        `json:"allocation_count"`
	UnmetUnits      float64    `json:"unmet_units"`
	ManualReview    bool       `json:"manual_review"`
	Iterations      int        `json:"iterations"`
	ByBank          []BankCost `json:"by_bank"`
}

// Summarize rolls a result up for the pricing summary. ManualReview is set
// whenever any deficit units remain unmet.
func Summarize(res *Result) Summary {
	byBank := make(map[string]*BankCost)
	var order []string
	for _, a := range res.Allocations {
		if a.BankID == "" && a.BankName == "" {
			continue
		}
		key := a.BankID + "|" + a.BankName
		agg, ok := byBank[key]
		if !ok {
			agg = &BankCost{BankID: a.BankID, BankName: a.BankName}
			byBank[key] = agg
			order = append(order, key)
		}
		agg.Units += a.Units
		agg.Cost += a.Cost
	}
	banks := make([]BankCost, 0, len(order))
	for _, key := range order {
		banks = append(banks, *byBank[key])
	}
	sort.SliceStable(banks, func(i, j int) bool { return banks[i].Cost > banks[j].Cost })

	return Summary{
		TotalCost:       res.TotalCost,
		AllocationCount: len(res.Allocations),
		UnmetUnits:      res.UnmetUnits(),
		ManualReview:    res.Unmet(),
		Iterations:      res.Iterations,
		ByBank:          banks,
	}
}

// WriteSummary prints a human-readable quote summary with grouped currency
// figures.
func WriteSummary(w io.Writer, res *Result) {
	p := message.NewPrinter(language.English)
	summary := Summarize(res)

	fmt.Fprintln(w, "Quote summary")
	fmt.Fprintln(w, "-------------")
	p.Fprintf(w, "Total cost:   £%.2f\n", summary.TotalCost)
	fmt.Fprintf(w, "Allocations:  %d\n", summary.AllocationCount)
	fmt.Fprintf(w, "Iterations:   %d\n", summary.Iterations)
	if summary.ManualReview {
		p.Fprintf(w, "Unmet units:  %.6f (manual review required)\n", summary.UnmetUnits)
	}
	if len(summary.ByBank) > 0 {
		fmt.Fprintln(w, "\nBy bank")
		fmt.Fprintln(w, "-------")
		for _, b := range summary.ByBank {
			p.Fprintf(w, "%s: %.6f units, £%.2f\n", b.BankName, b.Units, b.Cost)
		}
	}
	for _, d := range res.RemainingDeficits {
		fmt.Fprintf(w, "unmet: %s %.6f units (%s)\n", d.Habitat, d.Units, d.Source)
	}
}
