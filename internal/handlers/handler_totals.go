package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/gin-gonic/gin"
)

type totalsHandler struct {
	totalsService portssvc.TotalsSvc
}

func registerTotalsRoutes(rg *gin.RouterGroup, svc portssvc.TotalsSvc) {
	h := &totalsHandler{totalsService: svc}
	rg.POST("/totals/preview", h.previewTotals)
}

// previewTotals godoc
// @Summary Compute totals for an unsaved document
// @Description Runs the same calculation a save would. Nothing is persisted.
// @Tags totals
// @Accept json
// @Produce json
// @Param body body dto.TotalsPreviewRequest true "Calculation inputs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /totals/preview [post]
func (h *totalsHandler) previewTotals(c *gin.Context) {
	var req dto.TotalsPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.totalsService.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "compute totals")
		return
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}
