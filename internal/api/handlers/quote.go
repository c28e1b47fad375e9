package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WCLondon/Optimiser-sub001/internal/api/models"
	"github.com/WCLondon/Optimiser-sub001/internal/config"
	"github.com/WCLondon/Optimiser-sub001/internal/data"
	"github.com/WCLondon/Optimiser-sub001/internal/geography"
	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/optimiser"
	"github.com/WCLondon/Optimiser-sub001/internal/pricing"
)

// QuoteHandler prices quote requests against the current snapshot.
type QuoteHandler struct {
	store    *data.Store
	defaults config.OptimiserConfig
}

func NewQuoteHandler(store *data.Store, defaults config.OptimiserConfig) *QuoteHandler {
	return &QuoteHandler{store: store, defaults: defaults}
}

// RunQuote handles POST /api/v1/quote
func (h *QuoteHandler) RunQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	snap, err := h.currentSnapshot(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SNAPSHOT_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	tier, err := h.resolveTier(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_TIER",
				Message: err.Error(),
			},
		})
		return
	}

	engine, err := h.buildEngine(&req, snap, tier)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	deficits := req.DeficitEntries()
	surplus := req.SurplusEntries()
	inventory := snap.Inventory
	if req.Inventory != nil {
		inventory = data.PrepareInventory(req.Inventory)
	}

	result := engine.Run(deficits, surplus, inventory)
	c.JSON(http.StatusOK, models.FromResult(result, tier, req.Options.IncludeLog))
}

func (h *QuoteHandler) currentSnapshot(req *models.QuoteRequest) (*data.Snapshot, error) {
	// Fully inline requests never touch the store.
	if req.Inventory != nil && req.Pricing != nil && req.Catalog != nil {
		return &data.Snapshot{}, nil
	}
	return h.store.Current()
}

func (h *QuoteHandler) resolveTier(req *models.QuoteRequest) (string, error) {
	tier := strings.TrimSpace(req.Tier)
	if tier == "" && req.TierLookup != nil {
		tier = geography.ClassifyTier(req.TierLookup.Bank, req.TierLookup.Site, req.TierLookup.Neighbours)
	}
	if tier == "" {
		tier = h.defaults.Tier
	}
	if tier == "" {
		tier = geography.TierFar
	}
	if !geography.ValidTier(tier) {
		return "", &tierError{tier: tier}
	}
	return strings.ToLower(tier), nil
}

type tierError struct{ tier string }

func (e *tierError) Error() string {
	return "tier must be local, adjacent, or far, got " + e.tier
}

func (h *QuoteHandler) buildEngine(req *models.QuoteRequest, snap *data.Snapshot, tier string) (*optimiser.Engine, error) {
	pricingRows := snap.Pricing
	if req.Pricing != nil {
		pricingRows = req.Pricing
	}
	catalogRows := snap.Catalog
	if req.Catalog != nil {
		catalogRows = req.Catalog
	}

	contractSize := req.ContractSize
	if contractSize == "" {
		contractSize = h.defaults.ContractSize
	}
	srm := h.defaults.SRMMultiplier
	if req.SRMMultiplier != nil {
		srm = *req.SRMMultiplier
	}
	maxIterations := h.defaults.MaxIterations
	if req.MaxIterations > 0 {
		maxIterations = req.MaxIterations
	}

	return optimiser.New(optimiser.Params{
		Estimator:     pricing.NewEstimator(pricingRows, h.defaults.DefaultPrices),
		Catalog:       model.NewCatalog(catalogRows),
		Levels:        h.defaults.DistinctivenessLevels,
		Tier:          tier,
		ContractSize:  contractSize,
		SRMMultiplier: srm,
		MaxIterations: maxIterations,
	})
}
