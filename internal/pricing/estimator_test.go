package pricing

import (
	"testing"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
)

func testPricing() []model.PricingRow {
	return []model.PricingRow{
		{Habitat: "Mixed scrub", Tier: "local", ContractSize: "standard", Price: 26000},
		{Habitat: "Mixed scrub", Tier: "far", ContractSize: "standard", Price: 32000},
		{Habitat: "Cereal crops", Tier: "local", ContractSize: "standard", Price: 21000},
	}
}

func TestPriceExactMatch(t *testing.T) {
	est := NewEstimator(testPricing(), nil)

	tests := []struct {
		name            string
		habitat         string
		distinctiveness string
		tier            string
		contractSize    string
		want            float64
	}{
		{"exact hit", "Mixed scrub", "Medium", "local", "standard", 26000},
		{"tier selects row", "Mixed scrub", "Medium", "far", "standard", 32000},
		{"tier case-insensitive", "Mixed scrub", "Medium", "LOCAL", "standard", 26000},
		{"contract size miss falls back", "Mixed scrub", "Medium", "local", "bulk", 30000},
		{"habitat miss falls back to band", "Lowland fens", "High", "local", "standard", 65000},
		{"unknown band falls back to medium", "Mystery", "Unranked", "local", "standard", 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.Price(tt.habitat, tt.distinctiveness, tt.tier, tt.contractSize)
			if got != tt.want {
				t.Fatalf("Price(%q, %q, %q, %q) = %v, want %v",
					tt.habitat, tt.distinctiveness, tt.tier, tt.contractSize, got, tt.want)
			}
		})
	}
}

func TestPriceBandOrdering(t *testing.T) {
	bands := DefaultBandPrices()
	order := []string{
		model.DistinctivenessVeryLow,
		model.DistinctivenessLow,
		model.DistinctivenessMedium,
		model.DistinctivenessHigh,
		model.DistinctivenessVeryHigh,
	}
	for i := 1; i < len(order); i++ {
		if bands[order[i]] <= bands[order[i-1]] {
			t.Fatalf("band prices must increase with distinctiveness: %s (%v) <= %s (%v)",
				order[i], bands[order[i]], order[i-1], bands[order[i-1]])
		}
	}
}

func TestPriceCustomBands(t *testing.T) {
	est := NewEstimator(nil, map[string]float64{
		model.DistinctivenessMedium: 111,
		model.DistinctivenessLow:    99,
	})
	if got := est.Price("Anything", "Low", "local", ""); got != 99 {
		t.Fatalf("expected custom Low band 99, got %v", got)
	}
	if got := est.Price("Anything", "nonsense", "local", ""); got != 111 {
		t.Fatalf("expected Medium default for unknown band, got %v", got)
	}
}
