package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type affidavitHandler struct {
	affidavitService portssvc.AffidavitSvcFacade
}

// RegisterAffidavitRoutes registers the affidavit document routes plus revocation.
func RegisterAffidavitRoutes(rg *gin.RouterGroup, svc portssvc.AffidavitSvcFacade) {
	h := &affidavitHandler{affidavitService: svc}
	affidavits := RegisterDocumentRoutes(rg, "affidavits", svc, "job_id", "customer_id")
	affidavits.POST("/:id/revoke", h.revokeAffidavit)
}

// revokeAffidavit godoc
// @Summary Revoke an affidavit
// @Description Permanently invalidates an issued or locked affidavit. A non-empty reason is required.
// @Tags affidavits
// @Accept json
// @Produce json
// @Param id path string true "Affidavit ID"
// @Param body body dto.RevokeRequest true "Revocation reason"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already revoked"
// @Failure 422 {object} dto.ErrorResponse "Missing reason or not revocable"
// @Security BearerAuth
// @Router /affidavits/{id}/revoke [post]
func (h *affidavitHandler) revokeAffidavit(c *gin.Context) {
	var req dto.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	aff, err := h.affidavitService.Revoke(c.Request.Context(), c.Param("id"), req, middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err, "revoke affidavit")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Affidavit revoked", slog.String("affidavit_id", aff.ID))
	c.JSON(http.StatusOK, dto.OK(aff))
}
