package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// resourceHandler serves the CRUD routes shared by documents and master data.
type resourceHandler[T domain.Record] struct {
	name string
	// matchKeys are the query parameters passed through as equality filters.
	matchKeys []string
	reader    portssvc.DocumentReaderSvc[T]
	writer    portssvc.DocumentWriterSvc[T]
}

// documentHandler adds the lifecycle routes to a resourceHandler.
type documentHandler[T domain.Lifecycled] struct {
	*resourceHandler[T]
	lifecycle portssvc.LifecycleSvc[T]
}

func newResourceHandler[T domain.Record](name string, reader portssvc.DocumentReaderSvc[T], writer portssvc.DocumentWriterSvc[T], matchKeys ...string) *resourceHandler[T] {
	return &resourceHandler[T]{name: name, matchKeys: matchKeys, reader: reader, writer: writer}
}

func (h *resourceHandler[T]) register(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// RegisterDocumentRoutes registers CRUD, transition and history routes for a lifecycle resource.
func RegisterDocumentRoutes[T domain.Lifecycled](rg *gin.RouterGroup, path string, svc portssvc.DocumentSvcFacade[T], matchKeys ...string) *gin.RouterGroup {
	h := &documentHandler[T]{
		resourceHandler: newResourceHandler[T](path, svc, svc, matchKeys...),
		lifecycle:       svc,
	}
	g := rg.Group("/" + path)
	h.register(g)
	g.POST("/:id/transition", h.transition)
	g.GET("/:id/history", h.history)
	return g
}

// RegisterMasterDataRoutes registers the CRUD routes for a resource without a lifecycle.
func RegisterMasterDataRoutes[T domain.Record](rg *gin.RouterGroup, path string, svc portssvc.MasterDataSvcFacade[T], matchKeys ...string) *gin.RouterGroup {
	h := newResourceHandler[T](path, svc, svc, matchKeys...)
	g := rg.Group("/" + path)
	h.register(g)
	return g
}

// list godoc
// @Summary List records of a resource
// @Description Lists records newest first. Pass nextToken from the previous page to continue.
// @Tags documents
// @Produce json
// @Param resource path string true "Resource, e.g. invoices"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size (max 200)"
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /{resource} [get]
func (h *resourceHandler[T]) list(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	for _, key := range h.matchKeys {
		if v := c.Query(key); v != "" {
			if params.Match == nil {
				params.Match = make(map[string]string, len(h.matchKeys))
			}
			params.Match[key] = v
		}
	}

	page, err := h.reader.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list "+h.name)
		return
	}
	c.JSON(http.StatusOK, dto.OK(page))
}

// get godoc
// @Summary Get a record by ID
// @Tags documents
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /{resource}/{id} [get]
func (h *resourceHandler[T]) get(c *gin.Context) {
	doc, err := h.reader.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve "+h.name)
		return
	}
	c.JSON(http.StatusOK, dto.OK(doc))
}

// create godoc
// @Summary Create a record
// @Description The body is a partial record. Totals are always computed by the server.
// @Tags documents
// @Accept json
// @Produce json
// @Param resource path string true "Resource"
// @Param body body map[string]interface{} true "Partial record"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /{resource} [post]
func (h *resourceHandler[T]) create(c *gin.Context) {
	var body dto.DocumentPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	actor := middleware.ActorFromContext(c)

	doc, err := h.writer.Create(c.Request.Context(), body, actor)
	if err != nil {
		respondError(c, err, "create "+h.name)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(doc))
}

// update godoc
// @Summary Update a record
// @Description Applies a partial update. For lifecycle resources a "status" key moves the record
// @Description in the same save and "version" enables a stale-write check.
// @Tags documents
// @Accept json
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Param body body map[string]interface{} true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Locked field, invalid transition or stale version"
// @Failure 422 {object} dto.ErrorResponse "Transition precondition unmet"
// @Security BearerAuth
// @Router /{resource}/{id} [put]
func (h *resourceHandler[T]) update(c *gin.Context) {
	var body dto.DocumentPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}
	actor := middleware.ActorFromContext(c)

	doc, err := h.writer.Update(c.Request.Context(), c.Param("id"), body, actor)
	if err != nil {
		respondError(c, err, "update "+h.name)
		return
	}
	c.JSON(http.StatusOK, dto.OK(doc))
}

// delete godoc
// @Summary Delete a record
// @Description Lifecycle records can only be deleted in their initial status.
// @Tags documents
// @Produce json
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /{resource}/{id} [delete]
func (h *resourceHandler[T]) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.writer.Delete(c.Request.Context(), id, middleware.ActorFromContext(c)); err != nil {
		respondError(c, err, "delete "+h.name)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Record deleted", slog.String("resource", h.name), slog.String("id", id))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// transition godoc
// @Summary Change the status of a document
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param resource path string true "Lifecycle resource"
// @Param id path string true "Document ID"
// @Param body body dto.TransitionRequest true "Target status"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Failure 422 {object} dto.ErrorResponse "Precondition unmet or revocation denied"
// @Security BearerAuth
// @Router /{resource}/{id}/transition [post]
func (h *documentHandler[T]) transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	doc, err := h.lifecycle.Transition(c.Request.Context(), c.Param("id"), req, middleware.ActorFromContext(c))
	if err != nil {
		respondError(c, err, "change "+h.name+" status")
		return
	}
	c.JSON(http.StatusOK, dto.OK(doc))
}

// history godoc
// @Summary List the status changes of a document
// @Tags lifecycle
// @Produce json
// @Param resource path string true "Lifecycle resource"
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /{resource}/{id}/history [get]
func (h *documentHandler[T]) history(c *gin.Context) {
	events, err := h.lifecycle.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve "+h.name+" history")
		return
	}
	c.JSON(http.StatusOK, dto.OK(events))
}
