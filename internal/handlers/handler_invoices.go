package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// RegisterInvoiceRoutes registers the invoice document routes plus email delivery.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, svc portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: svc}
	invoices := RegisterDocumentRoutes(rg, "invoices", svc, "customer_id", "job_id", "estimate_id")
	invoices.POST("/send", h.sendInvoice)
}

// sendInvoice godoc
// @Summary Email an invoice to a customer
// @Description Emails the invoice. A draft invoice moves to sent once the email is accepted;
// @Description if delivery fails the status is left unchanged.
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body dto.SendInvoiceRequest true "Recipient"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Invoice has no line items"
// @Failure 502 {object} dto.ErrorResponse "Email delivery failed"
// @Security BearerAuth
// @Router /invoices/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SendInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	logger = logger.With(slog.String("invoice_id", req.InvoiceID))
	logger.Info("Received request to send invoice")

	inv, err := h.invoiceService.Send(c.Request.Context(), req, middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err, "send invoice")
		return
	}
	logger.Info("Invoice sent", slog.String("status", string(inv.Status)))
	c.JSON(http.StatusOK, dto.OK(inv))
}
