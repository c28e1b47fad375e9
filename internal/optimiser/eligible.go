package optimiser

import (
	"sort"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/trading"
)

// EligibleRow is one inventory row that may legally offset a given deficit,
// annotated with its classification, unit price, and baseline ratio.
type EligibleRow struct {
	Index                 int // position in the run's inventory arena
	SupplyHabitat         string
	SupplyDistinctiveness string
	SupplyBroadGroup      string
	UnitPrice             float64
	BaselineHabitat       string
	BaselineRatio         float64
}

// findEligible filters the inventory arena to rows that can serve a deficit:
// remaining gross above tolerance and trading-rule compatible. Results are
// sorted ascending by price so the cheapest legal substitute is consumed
// first; exact price ties keep table order.
func (e *Engine) findEligible(deficit model.DeficitEntry, rows []model.InventoryRow) []EligibleRow {
	demand := trading.Demand{
		Habitat:         deficit.Habitat,
		Distinctiveness: deficit.Distinctiveness,
		BroadGroup:      deficit.BroadGroup,
	}

	var out []EligibleRow
	for i, row := range rows {
		if row.RemainingGross <= epsilon {
			continue
		}
		distinctiveness, broadGroup := e.catalog.Classify(row.SupplyHabitat)
		supply := trading.Supply{
			Habitat:         row.SupplyHabitat,
			Distinctiveness: distinctiveness,
			BroadGroup:      broadGroup,
		}
		if !trading.Compatible(demand, supply, e.levels) {
			continue
		}
		out = append(out, EligibleRow{
			Index:                 i,
			SupplyHabitat:         row.SupplyHabitat,
			SupplyDistinctiveness: distinctiveness,
			SupplyBroadGroup:      broadGroup,
			UnitPrice:             e.estimator.Price(row.SupplyHabitat, distinctiveness, e.tier, e.contractSize),
			BaselineHabitat:       row.BaselineHabitat,
			BaselineRatio:         row.BaselineRatio(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnitPrice < out[j].UnitPrice
	})
	return out
}
