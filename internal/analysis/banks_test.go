package analysis

import (
	"testing"

	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/pricing"
)

func testEstimator() *pricing.Estimator {
	return pricing.NewEstimator([]model.PricingRow{
		{Habitat: "Mixed scrub", Tier: "local", ContractSize: "standard", Price: 28000},
		{Habitat: "Other neutral grassland", Tier: "local", ContractSize: "standard", Price: 50000},
	}, nil)
}

func testCatalog() *model.Catalog {
	return model.NewCatalog([]model.CatalogRow{
		{HabitatName: "Mixed scrub", DistinctivenessName: "Medium", BroaderType: "Heathland and shrub"},
		{HabitatName: "Other neutral grassland", DistinctivenessName: "Medium", BroaderType: "Grassland"},
	})
}

func TestRankBanks(t *testing.T) {
	rows := []model.InventoryRow{
		{ID: "r1", BankID: "b1", BankName: "Meadow Bank", SupplyHabitat: "Mixed scrub", GrossUnits: 1.2, NetUnits: 1.0, RemainingGross: 0.5},
		{ID: "r2", BankID: "b1", BankName: "Meadow Bank", SupplyHabitat: "Other neutral grassland", GrossUnits: 2.0, NetUnits: 2.0, RemainingGross: 1.5},
		{ID: "r3", BankID: "b2", BankName: "Scrub Bank", SupplyHabitat: "Mixed scrub", GrossUnits: 3.0, NetUnits: 3.0, RemainingGross: 3.0},
	}

	banks := RankBanks(rows, testEstimator(), testCatalog(), "local", "standard")

	if len(banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(banks))
	}
	if banks[0].BankName != "Scrub Bank" {
		t.Fatalf("expected most remaining gross first, got %+v", banks[0])
	}
	meadow := banks[1]
	if meadow.Rows != 2 || meadow.Habitats != 2 {
		t.Fatalf("unexpected aggregation: %+v", meadow)
	}
	if meadow.GrossUnits != 3.2 || meadow.RemainingGross != 2.0 {
		t.Fatalf("unexpected totals: %+v", meadow)
	}
	if meadow.CheapestPrice != 28000 {
		t.Fatalf("expected cheapest listed habitat price, got %v", meadow.CheapestPrice)
	}
}

func TestRankBanksEmpty(t *testing.T) {
	if banks := RankBanks(nil, testEstimator(), testCatalog(), "local", "standard"); len(banks) != 0 {
		t.Fatalf("expected no banks, got %+v", banks)
	}
}
