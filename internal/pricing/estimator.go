// Package pricing looks up unit prices for habitats at a given tier and
// contract size, with a distinctiveness-based fallback table.
package pricing

import (
	"strings"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
)

// DefaultBandPrices returns the fallback price per unit by distinctiveness
// band, used when the pricing table has no exact entry.
func DefaultBandPrices() map[string]float64 {
	return map[string]float64{
		model.DistinctivenessVeryLow:  20000,
		model.DistinctivenessLow:      24000,
		model.DistinctivenessMedium:   30000,
		model.DistinctivenessHigh:     65000,
		model.DistinctivenessVeryHigh: 150000,
	}
}

// Estimator prices habitat units. The pricing table and fallback bands are
// explicit configuration so the estimator stays pure and testable.
type Estimator struct {
	pricing    []model.PricingRow
	bandPrices map[string]float64
}

// NewEstimator builds an estimator over a pricing table. A nil bandPrices
// map selects DefaultBandPrices.
func NewEstimator(pricing []model.PricingRow, bandPrices map[string]float64) *Estimator {
	if bandPrices == nil {
		bandPrices = DefaultBandPrices()
	}
	return &Estimator{pricing: pricing, bandPrices: bandPrices}
}

// Price returns the unit price for a habitat at the given tier and contract
// size. Lookup is exact on habitat and contract size and case-insensitive on
// tier; on miss it falls back to the distinctiveness band price, defaulting
// to the Medium band when the band is unrecognized.
func (e *Estimator) Price(habitat, distinctiveness, tier, contractSize string) float64 {
	habitat = strings.TrimSpace(habitat)
	contractSize = strings.TrimSpace(contractSize)
	for _, row := range e.pricing {
		if strings.TrimSpace(row.Habitat) != habitat {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row.Tier), strings.TrimSpace(tier)) {
			continue
		}
		if strings.TrimSpace(row.ContractSize) != contractSize {
			continue
		}
		return row.Price
	}
	return e.bandPrice(distinctiveness)
}

func (e *Estimator) bandPrice(distinctiveness string) float64 {
	if v, ok := e.bandPrices[distinctiveness]; ok {
		return v
	}
	for band, v := range e.bandPrices {
		if strings.EqualFold(band, strings.TrimSpace(distinctiveness)) {
			return v
		}
	}
	return e.bandPrices[model.DistinctivenessMedium]
}
