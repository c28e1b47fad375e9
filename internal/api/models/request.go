package models

import (
	"github.com/WCLondon/Optimiser-sub001/internal/geography"
	"github.com/WCLondon/Optimiser-sub001/internal/model"
)

// QuoteRequest represents the request body for pricing a quote.
type QuoteRequest struct {
	Deficits      []HabitatLine `json:"deficits" binding:"required,dive"`
	OnSiteSurplus []HabitatLine `json:"on_site_surplus,omitempty"`

	// Tier may be given directly, or derived from TierLookup when empty.
	Tier       string      `json:"tier,omitempty"`
	TierLookup *TierLookup `json:"tier_lookup,omitempty"`

	ContractSize  string   `json:"contract_size,omitempty"`
	SRMMultiplier *float64 `json:"srm_multiplier,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty"`

	// Inline reference tables override the server snapshot when present.
	Inventory []model.InventoryRow `json:"inventory,omitempty"`
	Pricing   []model.PricingRow   `json:"pricing,omitempty"`
	Catalog   []model.CatalogRow   `json:"catalog,omitempty"`

	Options QuoteOptions `json:"options,omitempty"`
}

// HabitatLine is one deficit or surplus line.
type HabitatLine struct {
	Habitat         string  `json:"habitat" binding:"required"`
	Units           float64 `json:"units" binding:"required,gt=0"`
	Distinctiveness string  `json:"distinctiveness"`
	BroadGroup      string  `json:"broad_group"`
}

// TierLookup asks the server to classify the tier from administrative names
// instead of the caller supplying one.
type TierLookup struct {
	Site       geography.Area       `json:"site"`
	Bank       geography.Area       `json:"bank"`
	Neighbours geography.Neighbours `json:"neighbours"`
}

// QuoteOptions contains optional quote parameters.
type QuoteOptions struct {
	IncludeLog bool `json:"include_log,omitempty"`
}

// BanksRequest are the query parameters for ranking banks.
type BanksRequest struct {
	Tier         string `form:"tier,omitempty"`
	ContractSize string `form:"contract_size,omitempty"`
}

// DeficitEntries converts the request lines into engine deficits.
func (r *QuoteRequest) DeficitEntries() []model.DeficitEntry {
	out := make([]model.DeficitEntry, len(r.Deficits))
	for i, l := range r.Deficits {
		out[i] = model.DeficitEntry{
			Habitat:         l.Habitat,
			Units:           l.Units,
			Distinctiveness: l.Distinctiveness,
			BroadGroup:      l.BroadGroup,
			Source:          model.SourceMetric,
		}
	}
	return out
}

// SurplusEntries converts the request lines into engine surplus.
func (r *QuoteRequest) SurplusEntries() []model.SurplusEntry {
	out := make([]model.SurplusEntry, len(r.OnSiteSurplus))
	for i, l := range r.OnSiteSurplus {
		out[i] = model.SurplusEntry{
			Habitat:         l.Habitat,
			UnitsRemaining:  l.Units,
			Distinctiveness: l.Distinctiveness,
			BroadGroup:      l.BroadGroup,
			Source:          model.SurplusSourceOnSite,
		}
	}
	return out
}
