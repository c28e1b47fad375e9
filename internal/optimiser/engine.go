// Package optimiser matches habitat deficits to supply at minimum cost,
// subject to the trading rules, and settles the baseline losses incurred by
// the supply it allocates.
package optimiser

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/pricing"
	"github.com/WCLondon/Optimiser-sub001/internal/trading"
)

// epsilon is the unit tolerance below which a balance counts as exhausted.
const epsilon = 1e-9

const defaultMaxIterations = 1000

const (
	phaseMetric = iota + 1
	phaseBaseline
)

// Params configures one engine. Reference tables are explicit inputs, not
// globals: the engine never reads anything it was not handed.
type Params struct {
	Estimator     *pricing.Estimator
	Catalog       *model.Catalog
	Levels        map[string]float64
	Tier          string
	ContractSize  string
	SRMMultiplier float64
	MaxIterations int
}

// Engine runs gross-based allocation. A single engine may serve concurrent
// runs: all mutable state lives in per-run copies.
type Engine struct {
	estimator     *pricing.Estimator
	catalog       *model.Catalog
	levels        map[string]float64
	tier          string
	contractSize  string
	srm           float64
	maxIterations int
}

func New(p Params) (*Engine, error) {
	if p.Estimator == nil {
		return nil, errors.New("estimator is nil")
	}
	if p.SRMMultiplier < 0 {
		return nil, fmt.Errorf("srm multiplier must be >= 0, got %v", p.SRMMultiplier)
	}
	if p.Levels == nil {
		p.Levels = model.DefaultDistinctivenessLevels()
	}
	if p.Catalog == nil {
		p.Catalog = model.NewCatalog(nil)
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = defaultMaxIterations
	}
	return &Engine{
		estimator:     p.Estimator,
		catalog:       p.Catalog,
		levels:        p.Levels,
		tier:          p.Tier,
		contractSize:  p.ContractSize,
		srm:           p.SRMMultiplier,
		maxIterations: p.MaxIterations,
	}, nil
}

type runState struct {
	surplus     []model.SurplusEntry
	rows        []model.InventoryRow
	netDrawn    map[int]float64 // arena index -> units already sold from net
	bucket      *BaselineBucket
	allocations []model.AllocationRecord
	remaining   []model.DeficitEntry
	log         []string
	iterations  int
	capReached  bool
	totalCost   float64
}

func (st *runState) logf(format string, args ...any) {
	st.log = append(st.log, fmt.Sprintf(format, args...))
}

// Run executes both phases over copies of the inputs and returns an
// immutable result. Infeasibility is not an error: unmet units come back in
// RemainingDeficits tagged with the phase that could not satisfy them.
func (e *Engine) Run(deficits []model.DeficitEntry, surplus []model.SurplusEntry, inventory []model.InventoryRow) *Result {
	st := &runState{
		surplus:  copySurplus(surplus),
		rows:     copyInventory(inventory),
		netDrawn: make(map[int]float64),
		bucket:   NewBaselineBucket(),
	}

	// Phase 1: metric deficits, most expensive first while the cheapest
	// inventory is still fully available.
	metric := make([]model.DeficitEntry, len(deficits))
	copy(metric, deficits)
	for i := range metric {
		if metric[i].Source == "" {
			metric[i].Source = model.SourceMetric
		}
	}
	e.sortByEstimatedCost(metric)
	e.runPhase(st, metric, phaseMetric)

	// Phase 2: settle the baseline bucket as synthetic deficits, SRM applied
	// exactly once on the raw totals.
	synthetic := e.syntheticDeficits(st)
	e.sortByEstimatedCost(synthetic)
	e.runPhase(st, synthetic, phaseBaseline)

	var remainingSurplus []model.SurplusEntry
	for _, s := range st.surplus {
		if s.UnitsRemaining > epsilon {
			remainingSurplus = append(remainingSurplus, s)
		}
	}

	return &Result{
		QuoteID:           uuid.NewString(),
		Allocations:       st.allocations,
		RemainingDeficits: st.remaining,
		RemainingSurplus:  remainingSurplus,
		TotalCost:         st.totalCost,
		Iterations:        st.iterations,
		CapReached:        st.capReached,
		Log:               st.log,
	}
}

func (e *Engine) runPhase(st *runState, deficits []model.DeficitEntry, phase int) {
	unmetSource := model.SourceMetricUnmet
	if phase == phaseBaseline {
		unmetSource = model.SourceBaselineBucketUnmet
	}
	for _, d := range deficits {
		if d.Units <= epsilon {
			continue
		}
		if st.iterations >= e.maxIterations {
			if !st.capReached {
				st.capReached = true
				st.logf("iteration cap %d reached, returning partial allocation", e.maxIterations)
			}
			st.remaining = append(st.remaining, remainingEntry(d, d.Units, unmetSource))
			continue
		}
		st.iterations++
		allocated := e.satisfy(st, d, phase)
		if rem := d.Units - allocated; rem > epsilon {
			st.logf("phase %d: %s unmet by %.6f units", phase, d.Habitat, rem)
			st.remaining = append(st.remaining, remainingEntry(d, rem, unmetSource))
		}
	}
}

// satisfy works one deficit down to (at best) zero: on-site surplus first at
// zero cost, then eligible bank inventory cheapest-first. Returns the units
// allocated.
func (e *Engine) satisfy(st *runState, d model.DeficitEntry, phase int) float64 {
	needed := d.Units
	demand := trading.Demand{
		Habitat:         d.Habitat,
		Distinctiveness: d.Distinctiveness,
		BroadGroup:      d.BroadGroup,
	}
	st.logf("phase %d: satisfying %s (%.6f units, %s)", phase, d.Habitat, d.Units, d.Distinctiveness)

	for i := range st.surplus {
		if needed <= epsilon {
			break
		}
		s := &st.surplus[i]
		if s.UnitsRemaining <= epsilon {
			continue
		}
		supply := trading.Supply{
			Habitat:         s.Habitat,
			Distinctiveness: s.Distinctiveness,
			BroadGroup:      s.BroadGroup,
		}
		if !trading.Compatible(demand, supply, e.levels) {
			continue
		}
		take := math.Min(needed, s.UnitsRemaining)
		src := model.SupplyOnSiteSurplus
		if phase == phaseBaseline {
			src = model.SupplyOnSiteSurplusBaseline
		}
		st.record(model.AllocationRecord{
			ID:             uuid.NewString(),
			DeficitHabitat: d.Habitat,
			DeficitSource:  d.Source,
			SupplyHabitat:  s.Habitat,
			Units:          take,
			SupplySource:   src,
		})
		s.UnitsRemaining -= take
		needed -= take
		st.logf("  on-site surplus %s covers %.6f units at zero cost", s.Habitat, take)
	}

	if needed <= epsilon {
		return d.Units - needed
	}

	for _, cand := range e.findEligible(d, st.rows) {
		if needed <= epsilon {
			break
		}
		row := &st.rows[cand.Index]
		if row.RemainingGross <= epsilon {
			continue
		}

		// Self-baseline rows sell NET so the habitat never re-incurs itself;
		// Phase 2 sells NET across the board so a baseline can never spawn a
		// baseline-of-baseline.
		if phase == phaseBaseline || row.SelfBaseline() {
			availNet := row.NetUnits - st.netDrawn[cand.Index]
			if availNet > row.RemainingGross {
				availNet = row.RemainingGross
			}
			if availNet <= epsilon {
				continue
			}
			take := math.Min(needed, availNet)
			st.netDrawn[cand.Index] += take
			row.RemainingGross -= take
			src := model.SupplyBankNet
			if phase == phaseBaseline {
				src = model.SupplyBankNetBaseline
			}
			st.record(model.AllocationRecord{
				ID:             uuid.NewString(),
				DeficitHabitat: d.Habitat,
				DeficitSource:  d.Source,
				SupplyHabitat:  row.SupplyHabitat,
				Units:          take,
				SupplySource:   src,
				BankID:         row.BankID,
				BankName:       row.BankName,
				InventoryRowID: row.ID,
				UnitPrice:      cand.UnitPrice,
				Cost:           take * cand.UnitPrice,
			})
			needed -= take
			st.logf("  bank %s row %s covers %.6f units net at %.2f/unit", row.BankName, row.ID, take, cand.UnitPrice)
			continue
		}

		// Selling gross from a cross-baseline row credits only the net share
		// of the stock drawn: the rest re-incurs the row's baseline habitat.
		// Drawing X gross credits X*net/gross units and defers X*ratio
		// baseline, so a fully sold row incurs exactly its baseline units.
		if row.NetUnits <= epsilon {
			continue
		}
		grossPerUnit := row.GrossUnits / row.NetUnits
		drawGross := math.Min(needed*grossPerUnit, row.RemainingGross)
		take := drawGross / grossPerUnit
		if take <= epsilon {
			continue
		}
		row.RemainingGross -= drawGross
		baselineIncurred := drawGross * cand.BaselineRatio
		st.record(model.AllocationRecord{
			ID:              uuid.NewString(),
			DeficitHabitat:  d.Habitat,
			DeficitSource:   d.Source,
			SupplyHabitat:   row.SupplyHabitat,
			Units:           take,
			SupplySource:    model.SupplyBankGross,
			BankID:          row.BankID,
			BankName:        row.BankName,
			InventoryRowID:  row.ID,
			UnitPrice:       cand.UnitPrice,
			Cost:            take * cand.UnitPrice,
			BaselineHabitat: row.BaselineHabitat,
			BaselineUnits:   baselineIncurred,
		})
		if baselineIncurred > epsilon {
			st.bucket.Add(row.BaselineHabitat, baselineIncurred)
			st.logf("  bank %s row %s covers %.6f units gross at %.2f/unit, deferring %.6f %s baseline", row.BankName, row.ID, take, cand.UnitPrice, baselineIncurred, row.BaselineHabitat)
		} else {
			st.logf("  bank %s row %s covers %.6f units gross at %.2f/unit", row.BankName, row.ID, take, cand.UnitPrice)
		}
		needed -= take
	}

	return d.Units - needed
}

func (e *Engine) syntheticDeficits(st *runState) []model.DeficitEntry {
	var out []model.DeficitEntry
	for _, be := range st.bucket.Scaled(e.srm) {
		if be.Units <= epsilon {
			continue
		}
		distinctiveness, broadGroup := e.catalog.Classify(be.Habitat)
		out = append(out, model.DeficitEntry{
			Habitat:         be.Habitat,
			Units:           be.Units,
			Distinctiveness: distinctiveness,
			BroadGroup:      broadGroup,
			Source:          model.SourceBaselineBucket,
		})
		st.logf("phase 2: %s baseline %.6f raw units x %.2f srm = %.6f units to offset", be.Habitat, be.RawUnits, e.srm, be.Units)
	}
	return out
}

// sortByEstimatedCost orders deficits descending by price x units so the most
// expensive demand sees the cheapest inventory first. Stable: equal estimates
// keep input order.
func (e *Engine) sortByEstimatedCost(deficits []model.DeficitEntry) {
	cost := func(d model.DeficitEntry) float64 {
		return e.estimator.Price(d.Habitat, d.Distinctiveness, e.tier, e.contractSize) * d.Units
	}
	sort.SliceStable(deficits, func(i, j int) bool {
		return cost(deficits[i]) > cost(deficits[j])
	})
}

func (st *runState) record(rec model.AllocationRecord) {
	st.allocations = append(st.allocations, rec)
	st.totalCost += rec.Cost
}

func remainingEntry(d model.DeficitEntry, units float64, source model.DeficitSource) model.DeficitEntry {
	return model.DeficitEntry{
		Habitat:         d.Habitat,
		Units:           units,
		Distinctiveness: d.Distinctiveness,
		BroadGroup:      d.BroadGroup,
		Source:          source,
	}
}

func copySurplus(in []model.SurplusEntry) []model.SurplusEntry {
	out := make([]model.SurplusEntry, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Source == "" {
			out[i].Source = model.SurplusSourceOnSite
		}
	}
	return out
}

func copyInventory(in []model.InventoryRow) []model.InventoryRow {
	out := make([]model.InventoryRow, len(in))
	copy(out, in)
	for i := range out {
		if out[i].RemainingGross > out[i].GrossUnits {
			out[i].RemainingGross = out[i].GrossUnits
		}
		if out[i].RemainingGross < 0 {
			out[i].RemainingGross = 0
		}
	}
	return out
}
