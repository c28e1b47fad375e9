package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WCLondon/Optimiser-sub001/internal/api/models"
	"github.com/WCLondon/Optimiser-sub001/internal/config"
	"github.com/WCLondon/Optimiser-sub001/internal/data"
	"github.com/WCLondon/Optimiser-sub001/internal/geography"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testStore(t *testing.T) *data.Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.SnapshotConfig{
		InventoryFile: writeFile(t, dir, "inventory.json", `{"inventory":[
			{"bank_id":"b1","bank_name":"Meadow Bank","supply_habitat":"Mixed scrub","gross_units":2.0}
		]}`),
		PricingFile: writeFile(t, dir, "pricing.json", `{"pricing":[
			{"habitat":"Mixed scrub","tier":"local","contract_size":"standard","price":28000}
		]}`),
		CatalogFile: writeFile(t, dir, "catalog.json", `{"catalog":[
			{"habitat_name":"Mixed scrub","distinctiveness_name":"Medium","broader_type":"Heathland and shrub"}
		]}`),
	}
	return data.NewStore(cfg, time.Minute)
}

func testDefaults() config.OptimiserConfig {
	return config.OptimiserConfig{Tier: "local", ContractSize: "standard", SRMMultiplier: 1.0}
}

func quoteRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	h := NewQuoteHandler(testStore(t), testDefaults())
	r.POST("/api/v1/quote", h.RunQuote)
	return r
}

func postQuote(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunQuote(t *testing.T) {
	r := quoteRouter(t)
	w := postQuote(t, r, models.QuoteRequest{
		Deficits: []models.HabitatLine{
			{Habitat: "Mixed scrub", Units: 1.0, Distinctiveness: "Medium", BroadGroup: "Heathland and shrub"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %q", resp.Status)
	}
	if resp.QuoteID == "" {
		t.Fatal("expected quote id")
	}
	if resp.Tier != "local" {
		t.Fatalf("expected default tier, got %q", resp.Tier)
	}
	if len(resp.Allocations) != 1 || resp.Allocations[0].BankName != "Meadow Bank" {
		t.Fatalf("unexpected allocations: %+v", resp.Allocations)
	}
	if resp.Summary.TotalCost != 28000 {
		t.Fatalf("expected total cost 28000, got %v", resp.Summary.TotalCost)
	}
	if len(resp.Log) != 0 {
		t.Fatal("log must be omitted unless requested")
	}
}

func TestRunQuoteManualReview(t *testing.T) {
	r := quoteRouter(t)
	w := postQuote(t, r, models.QuoteRequest{
		Deficits: []models.HabitatLine{
			{Habitat: "Mixed scrub", Units: 5.0, Distinctiveness: "Medium", BroadGroup: "Heathland and shrub"},
		},
		Options: models.QuoteOptions{IncludeLog: true},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != models.StatusManualReview {
		t.Fatalf("expected manual_review, got %q", resp.Status)
	}
	if len(resp.RemainingDeficits) != 1 {
		t.Fatalf("expected remaining deficit, got %+v", resp.RemainingDeficits)
	}
	if len(resp.Log) == 0 {
		t.Fatal("expected log when include_log is set")
	}
}

func TestRunQuoteInlineTables(t *testing.T) {
	// With all three tables inline the snapshot files are never touched, so a
	// handler with no usable store must still work.
	r := gin.New()
	h := NewQuoteHandler(data.NewStore(config.SnapshotConfig{}, time.Minute), testDefaults())
	r.POST("/api/v1/quote", h.RunQuote)

	w := postQuote(t, r, map[string]any{
		"deficits": []map[string]any{
			{"habitat": "Cereal crops", "units": 0.5, "distinctiveness": "Low", "broad_group": "Cropland"},
		},
		"tier": "far",
		"inventory": []map[string]any{
			{"bank_id": "b9", "bank_name": "Inline Bank", "supply_habitat": "Cereal crops", "gross_units": 1.0},
		},
		"pricing": []map[string]any{
			{"habitat": "Cereal crops", "tier": "far", "contract_size": "standard", "price": 21000},
		},
		"catalog": []map[string]any{
			{"habitat_name": "Cereal crops", "distinctiveness_name": "Low", "broader_type": "Cropland"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Tier != "far" {
		t.Fatalf("expected explicit tier, got %q", resp.Tier)
	}
	if resp.Summary.TotalCost != 0.5*21000 {
		t.Fatalf("unexpected cost: %v", resp.Summary.TotalCost)
	}
}

func TestRunQuoteTierLookup(t *testing.T) {
	r := quoteRouter(t)
	w := postQuote(t, r, models.QuoteRequest{
		Deficits: []models.HabitatLine{
			{Habitat: "Mixed scrub", Units: 0.5, Distinctiveness: "Medium", BroadGroup: "Heathland and shrub"},
		},
		TierLookup: &models.TierLookup{
			Site: geography.Area{AdminArea: "Camden", CharacterArea: "Thames Valley"},
			Bank: geography.Area{AdminArea: "London Borough of Camden", CharacterArea: "Chilterns"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Tier != "local" {
		t.Fatalf("expected local from matching admin areas, got %q", resp.Tier)
	}
}

func TestRunQuoteBadRequests(t *testing.T) {
	r := quoteRouter(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"no deficits", map[string]any{}, "INVALID_REQUEST"},
		{"zero units", models.QuoteRequest{Deficits: []models.HabitatLine{{Habitat: "Mixed scrub", Units: 0}}}, "INVALID_REQUEST"},
		{"bad tier", models.QuoteRequest{
			Deficits: []models.HabitatLine{{Habitat: "Mixed scrub", Units: 1.0}},
			Tier:     "nearby",
		}, "INVALID_TIER"},
		{"negative srm", models.QuoteRequest{
			Deficits:      []models.HabitatLine{{Habitat: "Mixed scrub", Units: 1.0}},
			SRMMultiplier: float64Ptr(-1),
		}, "INVALID_CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postQuote(t, r, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Error.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, resp.Error.Code)
			}
		})
	}
}

func float64Ptr(v float64) *float64 { return &v }
