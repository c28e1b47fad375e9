package model

import "strings"

// PricingRow is one entry of the unit-price table. Tier comparison is
// case-insensitive; habitat and contract size must match exactly.
type PricingRow struct {
	Habitat      string  `json:"habitat"`
	Tier         string  `json:"tier"`
	ContractSize string  `json:"contract_size"`
	Price        float64 `json:"price"`
}

// CatalogRow classifies a habitat name into distinctiveness and broad group.
type CatalogRow struct {
	HabitatName         string `json:"habitat_name"`
	DistinctivenessName string `json:"distinctiveness_name"`
	BroaderType         string `json:"broader_type"`
}

// Catalog wraps the catalog table with case-insensitive habitat lookup.
type Catalog struct {
	rows  []CatalogRow
	index map[string]CatalogRow
}

func NewCatalog(rows []CatalogRow) *Catalog {
	c := &Catalog{rows: rows, index: make(map[string]CatalogRow, len(rows))}
	for _, row := range rows {
		key := catalogKey(row.HabitatName)
		if _, exists := c.index[key]; !exists {
			c.index[key] = row
		}
	}
	return c
}

func (c *Catalog) Rows() []CatalogRow { return c.rows }

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rows)
}

// Lookup returns the catalog row for a habitat name, if present.
func (c *Catalog) Lookup(habitat string) (CatalogRow, bool) {
	if c == nil {
		return CatalogRow{}, false
	}
	row, ok := c.index[catalogKey(habitat)]
	return row, ok
}

// Classify returns the distinctiveness and broad group for a habitat,
// defaulting to Low / empty when the catalog has no entry.
func (c *Catalog) Classify(habitat string) (distinctiveness, broadGroup string) {
	if row, ok := c.Lookup(habitat); ok {
		return row.DistinctivenessName, row.BroaderType
	}
	return DistinctivenessLow, ""
}

func catalogKey(habitat string) string {
	return strings.ToLower(strings.TrimSpace(habitat))
}

// Distinctiveness band names as they appear in the metric tables.
const (
	DistinctivenessVeryLow  = "Very Low"
	DistinctivenessLow      = "Low"
	DistinctivenessMedium   = "Medium"
	DistinctivenessHigh     = "High"
	DistinctivenessVeryHigh = "Very High"
)

// DefaultDistinctivenessLevels is the standard name -> rank table used when
// the caller supplies none.
func DefaultDistinctivenessLevels() map[string]float64 {
	return map[string]float64{
		DistinctivenessVeryLow:  0,
		DistinctivenessLow:      2,
		DistinctivenessMedium:   4,
		DistinctivenessHigh:     6,
		DistinctivenessVeryHigh: 8,
	}
}

// RankOf resolves a distinctiveness name against a rank table,
// case-insensitively. Unrecognized names rank 0.
func RankOf(levels map[string]float64, name string) float64 {
	if v, ok := levels[name]; ok {
		return v
	}
	for k, v := range levels {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return 0
}
