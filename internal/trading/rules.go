// Package trading implements the distinctiveness / broad-group trading rules
// that govern which habitats may legally substitute for others.
package trading

import (
	"strings"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
)

// Demand describes the habitat being offset.
type Demand struct {
	Habitat         string
	Distinctiveness string
	BroadGroup      string
}

// Supply describes the habitat offered as compensation.
type Supply struct {
	Habitat         string
	Distinctiveness string
	BroadGroup      string
}

// Compatible reports whether supply may legally offset demand under the
// trading rules, evaluated in precedence order:
//
//  1. demand habitat names containing "net gain" accept any supply
//  2. identical habitat names always trade
//  3. Very High / High demand trades only against the identical habitat
//  4. Medium demand trades within its broad group, or up to a strictly
//     higher distinctiveness band
//  5. Low / Very Low demand trades against the same or a higher band
//
// Ranks come from the supplied name -> numeric table; unrecognized names
// rank 0. Pure function, used identically for deficit-supply and
// baseline-supply checks.
func Compatible(demand Demand, supply Supply, levels map[string]float64) bool {
	demandName := strings.TrimSpace(demand.Habitat)
	supplyName := strings.TrimSpace(supply.Habitat)

	if strings.Contains(strings.ToLower(demandName), "net gain") {
		return true
	}
	if strings.EqualFold(demandName, supplyName) {
		return true
	}

	demandBand := strings.TrimSpace(demand.Distinctiveness)
	if equalsAny(demandBand, model.DistinctivenessVeryHigh, model.DistinctivenessHigh) {
		// No substitution at top distinctiveness.
		return false
	}

	demandRank := model.RankOf(levels, demandBand)
	supplyRank := model.RankOf(levels, supply.Distinctiveness)

	if strings.EqualFold(demandBand, model.DistinctivenessMedium) {
		if demand.BroadGroup != "" && strings.EqualFold(strings.TrimSpace(demand.BroadGroup), strings.TrimSpace(supply.BroadGroup)) {
			return true
		}
		return supplyRank > demandRank
	}

	if equalsAny(demandBand, model.DistinctivenessLow, model.DistinctivenessVeryLow) {
		return supplyRank >= demandRank
	}

	return false
}

func equalsAny(name string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(name, c) {
			return true
		}
	}
	return false
}
