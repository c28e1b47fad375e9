package models

import (
	"time"

	"github.com/WCLondon/Optimiser-sub001/internal/analysis"
	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/optimiser"
)

// QuoteResponse is the result of one pricing run.
type QuoteResponse struct {
	QuoteID           string                 `json:"quote_id"`
	Status            string                 `json:"status"` // "completed" | "manual_review"
	Tier              string                 `json:"tier"`
	Summary           QuoteSummary           `json:"summary"`
	Allocations       []AllocationRow        `json:"allocations"`
	RemainingDeficits []model.DeficitEntry   `json:"remaining_deficits,omitempty"`
	RemainingSurplus  []model.SurplusEntry   `json:"remaining_surplus,omitempty"`
	Log               []string               `json:"log,omitempty"`
}

const (
	StatusCompleted    = "completed"
	StatusManualReview = "manual_review"
)

// QuoteSummary mirrors optimiser.Summary for the wire.
type QuoteSummary struct {
	TotalCost       float64    `json:"total_cost"`
	AllocationCount int        `json:"allocation_count"`
	UnmetUnits      float64    `json:"unmet_units"`
	ManualReview    bool       `json:"manual_review"`
	Iterations      int        `json:"iterations"`
	ByBank          []BankCost `json:"by_bank"`
}

type BankCost struct {
	BankID   string  `json:"bank_id"`
	BankName string  `json:"bank_name"`
	Units    float64 `json:"units"`
	Cost     float64 `json:"cost"`
}

// AllocationRow is one row of the flat allocation table.
type AllocationRow struct {
	DeficitHabitat  string  `json:"deficit_habitat"`
	DeficitSource   string  `json:"deficit_source"`
	SupplyHabitat   string  `json:"supply_habitat"`
	Units           float64 `json:"units"`
	SupplySource    string  `json:"supply_source"`
	BankName        string  `json:"bank_name"`
	InventoryRowID  string  `json:"inventory_row_id"`
	UnitPrice       float64 `json:"unit_price"`
	Cost            float64 `json:"cost"`
	BaselineHabitat string  `json:"baseline_habitat,omitempty"`
	BaselineUnits   float64 `json:"baseline_units_incurred"`
}

// BanksResponse lists ranked bank potentials.
type BanksResponse struct {
	Banks []analysis.BankPotential `json:"banks"`
}

// RefDataResponse reports snapshot provenance.
type RefDataResponse struct {
	Hash          string    `json:"hash"`
	LoadedAt      time.Time `json:"loaded_at"`
	InventoryRows int       `json:"inventory_rows"`
	PricingRows   int       `json:"pricing_rows"`
	CatalogRows   int       `json:"catalog_rows"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// FromResult converts an engine result into the wire shape.
func FromResult(res *optimiser.Result, tier string, includeLog bool) QuoteResponse {
	summary := optimiser.Summarize(res)
	byBank := make([]BankCost, 0, len(summary.ByBank))
	for _, b := range summary.ByBank {
		byBank = append(byBank, BankCost{BankID: b.BankID, BankName: b.BankName, Units: b.Units, Cost: b.Cost})
	}

	table := optimiser.AllocationTable(res)
	rows := make([]AllocationRow, len(table))
	for i, r := range table {
		rows[i] = AllocationRow{
			DeficitHabitat:  r.DeficitHabitat,
			DeficitSource:   r.DeficitSource,
			SupplyHabitat:   r.SupplyHabitat,
			Units:           r.Units,
			SupplySource:    r.SupplySource,
			BankName:        r.BankName,
			InventoryRowID:  r.InventoryRowID,
			UnitPrice:       r.UnitPrice,
			Cost:            r.Cost,
			BaselineHabitat: r.BaselineHabitat,
			BaselineUnits:   r.BaselineUnits,
		}
	}

	status := StatusCompleted
	if summary.ManualReview {
		status = StatusManualReview
	}

	resp := QuoteResponse{
		QuoteID: res.QuoteID,
		Status:  status,
		Tier:    tier,
		Summary: QuoteSummary{
			TotalCost:       summary.TotalCost,
			AllocationCount: summary.AllocationCount,
			UnmetUnits:      summary.UnmetUnits,
			ManualReview:    summary.ManualReview,
			Iterations:      summary.Iterations,
			ByBank:          byBank,
		},
		Allocations:       rows,
		RemainingDeficits: res.RemainingDeficits,
		RemainingSurplus:  res.RemainingSurplus,
	}
	if includeLog {
		resp.Log = res.Log
	}
	return resp
}
