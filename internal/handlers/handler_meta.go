package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// resourceKind pairs a REST resource name with its record type and, for documents, its lifecycle.
type resourceKind struct {
	sample     any
	entityType domain.EntityType
}

var resourceKinds = map[string]resourceKind{
	"invoices":          {sample: &domain.Invoice{}, entityType: domain.EntityInvoice},
	"estimates":         {sample: &domain.Estimate{}, entityType: domain.EntityEstimate},
	"jobs":              {sample: &domain.Job{}, entityType: domain.EntityJob},
	"expenses":          {sample: &domain.Expense{}, entityType: domain.EntityExpense},
	"affidavits":        {sample: &domain.Affidavit{}, entityType: domain.EntityAffidavit},
	"customers":         {sample: &domain.Customer{}},
	"vendors":           {sample: &domain.Vendor{}},
	"services":          {sample: &domain.Service{}},
	"customer-requests": {sample: &domain.CustomerRequest{}},
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

type metaHandler struct {
	registry *lifecycle.Registry
	schemas  map[string]json.RawMessage
}

func newMetaHandler(registry *lifecycle.Registry) (*metaHandler, error) {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`, Description: "exact decimal"}
			}
			return nil
		},
	}
	schemas := make(map[string]json.RawMessage, len(resourceKinds))
	for name, kind := range resourceKinds {
		raw, err := json.Marshal(r.Reflect(kind.sample))
		if err != nil {
			return nil, fmt.Errorf("reflect schema of %s: %w", name, err)
		}
		schemas[name] = raw
	}
	return &metaHandler{registry: registry, schemas: schemas}, nil
}

func registerMetaRoutes(rg *gin.RouterGroup, registry *lifecycle.Registry) error {
	h, err := newMetaHandler(registry)
	if err != nil {
		return err
	}
	rg.GET("/meta/:resource", h.getResourceMeta)
	return nil
}

// getResourceMeta godoc
// @Summary Describe a resource
// @Description Returns the JSON schema of the resource and, for lifecycle resources, every status
// @Description with its editable fields and allowed next statuses.
// @Tags meta
// @Produce json
// @Param resource path string true "Resource, e.g. invoices"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} dto.ErrorResponse
// @Router /meta/{resource} [get]
func (h *metaHandler) getResourceMeta(c *gin.Context) {
	name := c.Param("resource")
	kind, ok := resourceKinds[name]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: fmt.Sprintf("unknown resource %q", name), Code: "not_found"})
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ResourceMetaResponse{
		Resource: name,
		Schema:   h.schemas[name],
		Statuses: h.describeStatuses(kind.entityType),
	}))
}

func (h *metaHandler) describeStatuses(entityType domain.EntityType) []dto.StatusRuleResponse {
	if entityType == "" {
		return nil
	}
	initial := h.registry.InitialStatus(entityType)
	statuses := h.registry.Statuses(entityType)
	out := make([]dto.StatusRuleResponse, 0, len(statuses))
	for _, st := range statuses {
		policy, _ := h.registry.Policy(entityType, st)
		mode, fields := policy.Describe()
		sort.Strings(fields)
		next := h.registry.AllowedTransitions(entityType, st)
		if next == nil {
			next = []domain.Status{}
		}
		out = append(out, dto.StatusRuleResponse{
			Status:        st,
			EditableMode:  mode,
			Fields:        fields,
			NextStatuses:  next,
			InitialStatus: st == initial,
		})
	}
	return out
}
