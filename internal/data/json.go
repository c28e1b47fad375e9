package data

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/WCLondon/Optimiser-sub001/internal/config"
	"github.com/WCLondon/Optimiser-sub001/internal/model"
)

// Snapshot is one immutable set of reference data. The optimiser treats it
// as read-only for the duration of a run; callers must not mutate a loaded
// snapshot.
type Snapshot struct {
	Inventory []model.InventoryRow `json:"inventory"`
	Pricing   []model.PricingRow   `json:"pricing"`
	Catalog   []model.CatalogRow   `json:"catalog"`

	Hash     string    `json:"hash"`
	LoadedAt time.Time `json:"loaded_at"`
}

type inventoryFile struct {
	Inventory []model.InventoryRow `json:"inventory"`
}

type pricingFile struct {
	Pricing []model.PricingRow `json:"pricing"`
}

type catalogFile struct {
	Catalog []model.CatalogRow `json:"catalog"`
}

// LoadSnapshot reads the three reference tables from disk. Missing pricing or
// catalog files are an error; the optimiser can run with an empty inventory
// but not without its lookup tables.
func LoadSnapshot(cfg config.SnapshotConfig) (*Snapshot, error) {
	snap := &Snapshot{LoadedAt: time.Now().UTC()}
	hasher := sha256.New()

	if cfg.InventoryFile != "" {
		raw, err := os.ReadFile(cfg.InventoryFile)
		if err != nil {
			return nil, fmt.Errorf("read inventory snapshot: %w", err)
		}
		var f inventoryFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse inventory snapshot: %w", err)
		}
		snap.Inventory = PrepareInventory(f.Inventory)
		hasher.Write(raw)
	}

	raw, err := os.ReadFile(cfg.PricingFile)
	if err != nil {
		return nil, fmt.Errorf("read pricing snapshot: %w", err)
	}
	var pf pricingFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse pricing snapshot: %w", err)
	}
	snap.Pricing = pf.Pricing
	hasher.Write(raw)

	raw, err = os.ReadFile(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}
	var cf catalogFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog snapshot: %w", err)
	}
	snap.Catalog = cf.Catalog
	hasher.Write(raw)

	snap.Hash = hex.EncodeToString(hasher.Sum(nil))
	return snap, nil
}

// PrepareInventory fills derived inventory fields the way rows are defined
// at creation: NetUnits = GrossUnits - BaselineUnits, RemainingGross starts
// at GrossUnits. Snapshots list sellable stock, so a zero RemainingGross
// means the field was omitted, not that the row is exhausted. Rows without
// an id are assigned one.
func PrepareInventory(rows []model.InventoryRow) []model.InventoryRow {
	out := make([]model.InventoryRow, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		if out[i].NetUnits == 0 && out[i].GrossUnits != 0 {
			out[i].NetUnits = out[i].GrossUnits - out[i].BaselineUnits
		}
		if out[i].RemainingGross == 0 {
			out[i].RemainingGross = out[i].GrossUnits
		}
		if out[i].RemainingGross > out[i].GrossUnits {
			out[i].RemainingGross = out[i].GrossUnits
		}
	}
	return out
}

// GroupByBank splits inventory into bank-keyed slices.
func GroupByBank(rows []model.InventoryRow) map[string][]model.InventoryRow {
	out := map[string][]model.InventoryRow{}
	for _, row := range rows {
		out[row.BankID] = append(out[row.BankID], row)
	}
	return out
}
