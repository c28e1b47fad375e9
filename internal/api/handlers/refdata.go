package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WCLondon/Optimiser-sub001/internal/api/models"
	"github.com/WCLondon/Optimiser-sub001/internal/data"
)

// RefDataHandler reports and reloads the reference-data snapshot.
type RefDataHandler struct {
	store *data.Store
}

func NewRefDataHandler(store *data.Store) *RefDataHandler {
	return &RefDataHandler{store: store}
}

// GetRefData handles GET /api/v1/refdata
func (h *RefDataHandler) GetRefData(c *gin.Context) {
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
	c.JSON(http.StatusOK, models.RefDataResponse{
		Hash:          snap.Hash,
		LoadedAt:      snap.LoadedAt,
		InventoryRows: len(snap.Inventory),
		PricingRows:   len(snap.Pricing),
		CatalogRows:   len(snap.Catalog),
	})
}

// ReloadRefData handles POST /api/v1/refdata/reload
func (h *RefDataHandler) ReloadRefData(c *gin.Context) {
	h.store.Invalidate()
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
	c.JSON(http.StatusOK, models.RefDataResponse{
		Hash:          snap.Hash,
		LoadedAt:      snap.LoadedAt,
		InventoryRows: len(snap.Inventory),
		PricingRows:   len(snap.Pricing),
		CatalogRows:   len(snap.Catalog),
	})
}
