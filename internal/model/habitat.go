package model

import "strings"

// DeficitSource tags why a deficit exists (or why it is still unmet).
// Keep these values stable; they are intended for CSV output and audit logs.
type DeficitSource string

const (
	SourceMetric              DeficitSource = "metric"
	SourceBaselineBucket      DeficitSource = "baseline_bucket"
	SourceMetricUnmet         DeficitSource = "metric_unmet"
	SourceBaselineBucketUnmet DeficitSource = "baseline_bucket_unmet"
)

// SupplySource tags where the units of one allocation came from.
type SupplySource string

const (
	SupplyOnSiteSurplus         SupplySource = "on_site_surplus"
	SupplyOnSiteSurplusBaseline SupplySource = "on_site_surplus_baseline"
	SupplyBankGross             SupplySource = "bank_gross"
	SupplyBankNet               SupplySource = "bank_net"
	SupplyBankNetBaseline       SupplySource = "bank_net_baseline"
)

// DeficitEntry is a habitat unit shortfall that must be offset.
// Entries are never mutated in place; each allocation step derives a new
// remaining-units value.
type DeficitEntry struct {
	Habitat         string        `json:"habitat"`
	Units           float64       `json:"units"`
	Distinctiveness string        `json:"distinctiveness"`
	BroadGroup      string        `json:"broad_group"`
	Source          DeficitSource `json:"source"`
}

// SurplusEntry is on-site habitat availability, consumed at zero cost.
// UnitsRemaining is a running balance owned by a single optimisation run.
type SurplusEntry struct {
	Habitat         string  `json:"habitat"`
	UnitsRemaining  float64 `json:"units_remaining"`
	Distinctiveness string  `json:"distinctiveness"`
	BroadGroup      string  `json:"broad_group"`
	Source          string  `json:"source"`
}

const SurplusSourceOnSite = "on_site"

// InventoryRow is one gross inventory line at a habitat bank.
//
// GrossUnits is the total created including the share needed to offset the
// bank's own baseline loss; NetUnits = GrossUnits - BaselineUnits is fixed at
// row creation and never re-derived mid-run. RemainingGross is a running
// balance: 0 <= RemainingGross <= GrossUnits.
type InventoryRow struct {
	ID              string  `json:"id"`
	BankID          string  `json:"bank_id"`
	BankName        string  `json:"bank_name"`
	BaselineHabitat string  `json:"baseline_habitat,omitempty"`
	BaselineUnits   float64 `json:"baseline_units"`
	SupplyHabitat   string  `json:"supply_habitat"`
	GrossUnits      float64 `json:"gross_units"`
	NetUnits        float64 `json:"net_units"`
	RemainingGross  float64 `json:"remaining_gross"`
}

// SelfBaseline reports whether the row's baseline habitat is the same habitat
// it supplies. Such rows must be sold from NET: selling GROSS would re-incur
// the same habitat as baseline and loop forever.
func (r InventoryRow) SelfBaseline() bool {
	b := strings.TrimSpace(r.BaselineHabitat)
	if b == "" {
		return false
	}
	return strings.EqualFold(b, strings.TrimSpace(r.SupplyHabitat))
}

// BaselineRatio is baseline units incurred per gross unit sold.
func (r InventoryRow) BaselineRatio() float64 {
	if r.GrossUnits == 0 {
		return 0
	}
	return r.BaselineUnits / r.GrossUnits
}

// AllocationRecord is one immutable (deficit, supply-row) match. A deficit
// split across sources produces multiple records.
type AllocationRecord struct {
	ID              string       `json:"id"`
	DeficitHabitat  string       `json:"deficit_habitat"`
	DeficitSource   DeficitSource `json:"deficit_source"`
	SupplyHabitat   string       `json:"supply_habitat"`
	Units           float64      `json:"units"`
	SupplySource    SupplySource `json:"supply_source"`
	BankID          string       `json:"bank_id,omitempty"`
	BankName        string       `json:"bank_name,omitempty"`
	InventoryRowID  string       `json:"inventory_row_id,omitempty"`
	UnitPrice       float64      `json:"unit_price"`
	Cost            float64      `json:"cost"`
	BaselineHabitat string       `json:"baseline_habitat,omitempty"`
	BaselineUnits   float64      `json:"baseline_units_incurred"`
}
