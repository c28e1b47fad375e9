package optimiser

import "github.com/WCLondon/Optimiser-sub001/internal/model"

// Result is the immutable output of one optimisation run.
type Result struct {
	QuoteID           string                   `json:"quote_id"`
	Allocations       []model.AllocationRecord `json:"allocations"`
	RemainingDeficits []model.DeficitEntry     `json:"remaining_deficits"`
	RemainingSurplus  []model.SurplusEntry     `json:"remaining_surplus"`
	TotalCost         float64                  `json:"total_cost"`
	Iterations        int                      `json:"iterations"`
	CapReached        bool                     `json:"cap_reached"`
	Log               []string                 `json:"log,omitempty"`
}

// Unmet reports whether any deficit units remain unallocated. Callers use
// this to route a quote to manual review rather than treating it as an error.
func (r *Result) Unmet() bool {
	return len(r.RemainingDeficits) > 0
}

// UnmetUnits is the total units left unallocated across both phases.
func (r *Result) UnmetUnits() float64 {
	var total float64
	for _, d := range r.RemainingDeficits {
		total += d.Units
	}
	return total
}
