package optimiser

import "strings"

// BaselineBucket accumulates raw baseline units per habitat during Phase 1.
// Settling baselines immediately would require reapplying the spatial-risk
// multiplier per allocation and risks cascading loops; the bucket defers and
// batches them so the multiplier is applied exactly once.
type BaselineBucket struct {
	units map[string]float64
	order []string
}

func NewBaselineBucket() *BaselineBucket {
	return &BaselineBucket{units: make(map[string]float64)}
}

// Add accumulates raw baseline units for a habitat. Empty habitats and
// non-positive amounts are ignored.
func (b *BaselineBucket) Add(habitat string, units float64) {
	habitat = strings.TrimSpace(habitat)
	if habitat == "" || units <= 0 {
		return
	}
	if _, seen := b.units[habitat]; !seen {
		b.order = append(b.order, habitat)
	}
	b.units[habitat] += units
}

// Raw returns the accumulated raw units for a habitat.
func (b *BaselineBucket) Raw(habitat string) float64 {
	return b.units[strings.TrimSpace(habitat)]
}

func (b *BaselineBucket) Len() int { return len(b.order) }

// BucketEntry is one habitat's deferred baseline after SRM scaling.
type BucketEntry struct {
	Habitat  string
	RawUnits float64
	Units    float64
}

// Scaled returns the bucket contents multiplied by the spatial-risk
// multiplier, in first-added order.
func (b *BaselineBucket) Scaled(srm float64) []BucketEntry {
	out := make([]BucketEntry, 0, len(b.order))
	for _, habitat := range b.order {
		raw := b.units[habitat]
		out = append(out, BucketEntry{
			Habitat:  habitat,
			RawUnits: raw,
			Units:    raw * srm,
		})
	}
	return out
}
