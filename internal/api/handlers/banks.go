package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WCLondon/Optimiser-sub001/internal/analysis"
	"github.com/WCLondon/Optimiser-sub001/internal/api/models"
	"github.com/WCLondon/Optimiser-sub001/internal/config"
	"github.com/WCLondon/Optimiser-sub001/internal/data"
	"github.com/WCLondon/Optimiser-sub001/internal/geography"
	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/pricing"
)

// BanksHandler ranks the banks in the current snapshot.
type BanksHandler struct {
	store    *data.Store
	defaults config.OptimiserConfig
}

func NewBanksHandler(store *data.Store, defaults config.OptimiserConfig) *BanksHandler {
	return &BanksHandler{store: store, defaults: defaults}
}

// ListBanks handles GET /api/v1/banks
func (h *BanksHandler) ListBanks(c *gin.Context) {
	var req models.BanksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	tier := req.Tier
	if tier == "" {
		tier = h.defaults.Tier
	}
	if tier == "" {
		tier = geography.TierFar
	}
	if !geography.ValidTier(tier) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_TIER",
				Message: "tier must be local, adjacent, or far",
			},
		})
		return
	}
	contractSize := req.ContractSize
	if contractSize == "" {
		contractSize = h.defaults.ContractSize
	}

	snap, err := h.store.Current()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SNAPSHOT_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	est := pricing.NewEstimator(snap.Pricing, h.defaults.DefaultPrices)
	catalog := model.NewCatalog(snap.Catalog)
	banks := analysis.RankBanks(snap.Inventory, est, catalog, tier, contractSize)
	c.JSON(http.StatusOK, models.BanksResponse{Banks: banks})
}
