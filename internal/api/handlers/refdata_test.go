package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/WCLondon/Optimiser-sub001/internal/api/models"
)

func TestListBanks(t *testing.T) {
	r := gin.New()
	h := NewBanksHandler(testStore(t), testDefaults())
	r.GET("/api/v1/banks", h.ListBanks)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/banks?tier=local&contract_size=standard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.BanksResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Banks) != 1 {
		t.Fatalf("expected 1 bank, got %d", len(resp.Banks))
	}
	b := resp.Banks[0]
	if b.BankName != "Meadow Bank" || b.RemainingGross != 2.0 || b.CheapestPrice != 28000 {
		t.Fatalf("unexpected bank potential: %+v", b)
	}
}

func TestListBanksInvalidTier(t *testing.T) {
	r := gin.New()
	h := NewBanksHandler(testStore(t), testDefaults())
	r.GET("/api/v1/banks", h.ListBanks)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/banks?tier=nearby", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetRefData(t *testing.T) {
	r := gin.New()
	h := NewRefDataHandler(testStore(t))
	r.GET("/api/v1/refdata", h.GetRefData)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/refdata", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.RefDataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Hash == "" || resp.LoadedAt.IsZero() {
		t.Fatalf("expected snapshot provenance, got %+v", resp)
	}
	if resp.InventoryRows != 1 || resp.PricingRows != 1 || resp.CatalogRows != 1 {
		t.Fatalf("unexpected row counts: %+v", resp)
	}
}

func TestReloadRefData(t *testing.T) {
	r := gin.New()
	h := NewRefDataHandler(testStore(t))
	r.POST("/api/v1/refdata/reload", h.ReloadRefData)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refdata/reload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.RefDataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.CatalogRows != 1 {
		t.Fatalf("unexpected row counts after reload: %+v", resp)
	}
}
