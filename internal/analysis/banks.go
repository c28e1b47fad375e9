// Package analysis produces bank-level summaries of an inventory snapshot,
// used for ranking supply before any quote is priced.
package analysis

import (
	"math"
	"sort"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/pricing"
)

// BankPotential is a per-bank supply summary you can use for ranking.
type BankPotential struct {
	BankID   string `json:"bank_id"`
	BankName string `json:"bank_name"`

	Rows           int     `json:"rows"`
	Habitats       int     `json:"habitats"`
	GrossUnits     float64 `json:"gross_units"`
	RemainingGross float64 `json:"remaining_gross"`
	NetUnits       float64 `json:"net_units"`

	// CheapestPrice is the lowest unit price across the bank's listed
	// habitats at the given tier and contract size.
	CheapestPrice float64 `json:"cheapest_price"`
}

// RankBanks aggregates inventory rows per bank and sorts descending by
// remaining sellable units.
func RankBanks(rows []model.InventoryRow, est *pricing.Estimator, catalog *model.Catalog, tier, contractSize string) []BankPotential {
	byBank := make(map[string]*BankPotential)
	habitats := make(map[string]map[string]bool)
	var order []string

	for _, row := range rows {
		key := row.BankID + "|" + row.BankName
		p, ok := byBank[key]
		if !ok {
			p = &BankPotential{
				BankID:        row.BankID,
				BankName:      row.BankName,
				CheapestPrice: math.Inf(1),
			}
			byBank[key] = p
			habitats[key] = make(map[string]bool)
			order = append(order, key)
		}
		p.Rows++
		p.GrossUnits += row.GrossUnits
		p.RemainingGross += row.RemainingGross
		p.NetUnits += row.NetUnits
		habitats[key][row.SupplyHabitat] = true

		distinctiveness, _ := catalog.Classify(row.SupplyHabitat)
		if price := est.Price(row.SupplyHabitat, distinctiveness, tier, contractSize); price < p.CheapestPrice {
			p.CheapestPrice = price
		}
	}

	out := make([]BankPotential, 0, len(order))
	for _, key := range order {
		p := byBank[key]
		p.Habitats = len(habitats[key])
		if math.IsInf(p.CheapestPrice, 1) {
			p.CheapestPrice = 0
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RemainingGross > out[j].RemainingGross
	})
	return out
}
