package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/SscSPs/disposal_backoffice/internal/dto"
	"github.com/SscSPs/disposal_backoffice/internal/utils/accounting"
	"github.com/invopop/jsonschema"
)

// Keys a client can never change. Echoing the stored value back is accepted.
var headerFields = map[string]bool{
	"id":         true,
	"number":     true,
	"created_at": true,
	"created_by": true,
	"updated_at": true,
	"updated_by": true,
	"version":    true,
}

// derivedFields are recomputed on every save; client values are discarded.
var derivedFields = map[string]bool{
	"totals": true,
}

// Keys of a document update that steer the save rather than set a field.
const (
	patchKeyStatus  = "status"
	patchKeyReason  = "reason"
	patchKeyVersion = "version"
)

var fieldSets sync.Map // reflect.Type -> map[string]bool

// declaredFields returns the exact top-level JSON names of v's type.
func declaredFields(v any) map[string]bool {
	t := reflect.TypeOf(v)
	if cached, ok := fieldSets.Load(t); ok {
		return cached.(map[string]bool)
	}
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(v)
	fields := make(map[string]bool)
	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			fields[pair.Key] = true
		}
	}
	fieldSets.Store(t, fields)
	return fields
}

// applyPatch overlays body onto current and decodes the result into fresh, which must be a
// zero value of the same type. It returns the names of the fields whose value changed.
// Keys must match a JSON field name exactly. Header and read-only fields may only repeat
// their stored value; derived fields are discarded.
func applyPatch[T any](current T, fresh T, body dto.DocumentPatch, readOnly map[string]bool) ([]string, error) {
	declared := declaredFields(fresh)
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !declared[k] {
			return nil, fmt.Errorf("%w: unknown field %q", apperrors.ErrValidation, k)
		}
	}

	before, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode current document: %w", err)
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(before, &merged); err != nil {
		return nil, fmt.Errorf("decode current document: %w", err)
	}
	beforeFields := make(map[string]json.RawMessage, len(merged))
	for k, v := range merged {
		beforeFields[k] = v
	}

	for _, k := range keys {
		if derivedFields[k] {
			continue
		}
		merged[k] = body[k]
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode patched document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fresh); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.TrimPrefix(err.Error(), "json: "))
	}

	after, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("encode patched document: %w", err)
	}
	var afterFields map[string]json.RawMessage
	if err := json.Unmarshal(after, &afterFields); err != nil {
		return nil, fmt.Errorf("decode patched document: %w", err)
	}

	all := make(map[string]bool, len(beforeFields)+len(afterFields))
	for k := range beforeFields {
		all[k] = true
	}
	for k := range afterFields {
		all[k] = true
	}
	names := make([]string, 0, len(all))
	for k := range all {
		names = append(names, k)
	}
	sort.Strings(names)

	changed := make([]string, 0)
	for _, k := range names {
		if derivedFields[k] || sameJSON(beforeFields[k], afterFields[k]) {
			continue
		}
		if headerFields[k] || readOnly[k] {
			return nil, fmt.Errorf("%w: field %q is read-only", apperrors.ErrValidation, k)
		}
		if k == accounting.FieldLineItems {
			changed = append(changed, lineItemChanges(current, fresh)...)
			continue
		}
		changed = append(changed, k)
	}
	return changed, nil
}

func sameJSON(a, b json.RawMessage) bool {
	if len(a) == 0 {
		a = json.RawMessage("null")
	}
	if len(b) == 0 {
		b = json.RawMessage("null")
	}
	return bytes.Equal(a, b)
}

// lineItemChanges names the line item fields that differ between two priced documents.
// Adding or removing an item is reported as a change to the collection itself.
func lineItemChanges(current, fresh any) []string {
	before, ok1 := current.(domain.Priced)
	after, ok2 := fresh.(domain.Priced)
	if !ok1 || !ok2 {
		return []string{accounting.FieldLineItems}
	}

	byID := make(map[string]domain.LineItem, len(before.GetPricing().LineItems))
	for _, it := range before.GetPricing().LineItems {
		byID[it.ID] = it
	}

	seen := make(map[string]bool)
	add := func(field string) {
		seen[field] = true
	}
	kept := 0
	for _, it := range after.GetPricing().LineItems {
		old, exists := byID[it.ID]
		if it.ID == "" || !exists {
			add(accounting.FieldLineItems)
			continue
		}
		kept++
		if it.Description != old.Description {
			add(accounting.FieldLineItemDescription)
		}
		if it.ServiceID != old.ServiceID {
			add(accounting.FieldLineItemServiceID)
		}
		if !it.Quantity.Equal(old.Quantity) {
			add(accounting.FieldLineItemQuantity)
		}
		if !it.UnitPrice.Equal(old.UnitPrice) {
			add(accounting.FieldLineItemUnitPrice)
		}
		if it.SortOrder != old.SortOrder {
			add(accounting.FieldLineItemSortOrder)
		}
	}
	if kept != len(byID) {
		add(accounting.FieldLineItems)
	}

	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// splitControlKeys removes status, reason and version from body and returns them.
func splitControlKeys(body dto.DocumentPatch) (dto.DocumentPatch, *domain.Status, string, *int64, error) {
	rest := make(dto.DocumentPatch, len(body))
	var (
		target  *domain.Status
		reason  string
		version *int64
	)
	for k, v := range body {
		switch k {
		case patchKeyStatus:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, nil, "", nil, fmt.Errorf("%w: status must be a string", apperrors.ErrValidation)
			}
			if s != "" {
				st := domain.Status(s)
				target = &st
			}
		case patchKeyReason:
			if err := json.Unmarshal(v, &reason); err != nil {
				return nil, nil, "", nil, fmt.Errorf("%w: reason must be a string", apperrors.ErrValidation)
			}
		case patchKeyVersion:
			var n int64
			if err := json.Unmarshal(v, &n); err != nil {
				return nil, nil, "", nil, fmt.Errorf("%w: version must be an integer", apperrors.ErrValidation)
			}
			version = &n
		default:
			rest[k] = v
		}
	}
	return rest, target, reason, version, nil
}
