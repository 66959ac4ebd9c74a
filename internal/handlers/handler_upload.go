package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type uploadHandler struct {
	uploadService portssvc.UploadSvc
}

func registerUploadRoutes(rg *gin.RouterGroup, svc portssvc.UploadSvc) {
	h := &uploadHandler{uploadService: svc}
	rg.POST("/upload", h.uploadFile)
}

// uploadFile godoc
// @Summary Upload an attachment
// @Description Stores a receipt, photo or signed document and returns its URL.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to store"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /upload [post]
func (h *uploadHandler) uploadFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	header, err := c.FormFile("file")
	if err != nil {
		respondBindError(c, err)
		return
	}
	f, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Unreadable file", Code: "validation_error"})
		return
	}
	defer f.Close()

	resp, err := h.uploadService.Upload(c.Request.Context(), dto.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err, "upload file")
		return
	}
	c.JSON(http.StatusOK, resp)
}
