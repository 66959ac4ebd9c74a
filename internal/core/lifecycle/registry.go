// Package lifecycle holds the per-entity status state machines: which statuses exist, which
// transitions between them are legal, and which fields each status leaves editable.
package lifecycle

import (
	"fmt"

	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
)

type fieldMode int

const (
	modeAll fieldMode = iota
	modeNone
	modeOnly
	modeAllExcept
)

// FieldPolicy describes which fields are editable in a status.
type FieldPolicy struct {
	mode   fieldMode
	fields map[string]struct{}
}

// AllFields leaves every field editable.
func AllFields() FieldPolicy { return FieldPolicy{mode: modeAll} }

// NoFields locks every field.
func NoFields() FieldPolicy { return FieldPolicy{mode: modeNone} }

// OnlyFields leaves just the named fields editable.
func OnlyFields(fields ...string) FieldPolicy {
	return FieldPolicy{mode: modeOnly, fields: toSet(fields)}
}

// AllFieldsExcept locks just the named fields.
func AllFieldsExcept(fields ...string) FieldPolicy {
	return FieldPolicy{mode: modeAllExcept, fields: toSet(fields)}
}

func toSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Allows reports whether field may be changed under this policy.
func (p FieldPolicy) Allows(field string) bool {
	_, listed := p.fields[field]
	switch p.mode {
	case modeAll:
		return true
	case modeOnly:
		return listed
	case modeAllExcept:
		return !listed
	default:
		return false
	}
}

// Describe renders the policy for API consumers, e.g. "all", "none", "only", "all_except".
func (p FieldPolicy) Describe() (string, []string) {
	fields := make([]string, 0, len(p.fields))
	for f := range p.fields {
		fields = append(fields, f)
	}
	switch p.mode {
	case modeAll:
		return "all", nil
	case modeOnly:
		return "only", fields
	case modeAllExcept:
		return "all_except", fields
	default:
		return "none", nil
	}
}

// StatusDefinition declares one status of an entity type.
type StatusDefinition struct {
	Status   domain.Status
	Editable FieldPolicy
	Next     []domain.Status
}

// EntityDefinition declares the whole state machine of an entity type. The first status is the initial one.
type EntityDefinition struct {
	Type     domain.EntityType
	Statuses []StatusDefinition
}

type entityRules struct {
	initial domain.Status
	order   []domain.Status
	rules   map[domain.Status]StatusDefinition
}

// Registry maps (entity type, status) to its editability and allowed next statuses.
// It is immutable after construction and safe to share between goroutines.
type Registry struct {
	entities map[domain.EntityType]*entityRules
}

// NewRegistry validates and indexes the given definitions.
func NewRegistry(defs ...EntityDefinition) (*Registry, error) {
	r := &Registry{entities: make(map[domain.EntityType]*entityRules, len(defs))}
	for _, def := range defs {
		if len(def.Statuses) == 0 {
			return nil, fmt.Errorf("entity %s declares no statuses", def.Type)
		}
		if _, dup := r.entities[def.Type]; dup {
			return nil, fmt.Errorf("entity %s declared twice", def.Type)
		}
		er := &entityRules{
			initial: def.Statuses[0].Status,
			rules:   make(map[domain.Status]StatusDefinition, len(def.Statuses)),
		}
		for _, sd := range def.Statuses {
			if _, dup := er.rules[sd.Status]; dup {
				return nil, fmt.Errorf("entity %s declares status %s twice", def.Type, sd.Status)
			}
			sd.Next = append([]domain.Status(nil), sd.Next...)
			er.rules[sd.Status] = sd
			er.order = append(er.order, sd.Status)
		}
		for _, sd := range def.Statuses {
			for _, next := range sd.Next {
				if _, ok := er.rules[next]; !ok {
					return nil, fmt.Errorf("entity %s: status %s points to undeclared status %s", def.Type, sd.Status, next)
				}
			}
		}
		if revoked, ok := er.rules[domain.StatusRevoked]; ok && len(revoked.Next) > 0 {
			return nil, fmt.Errorf("entity %s: %s must be terminal", def.Type, domain.StatusRevoked)
		}
		r.entities[def.Type] = er
	}
	return r, nil
}

// MustNewRegistry is NewRegistry that panics on an invalid definition.
func MustNewRegistry(defs ...EntityDefinition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) lookup(entityType domain.EntityType, status domain.Status) (StatusDefinition, bool) {
	er, ok := r.entities[entityType]
	if !ok {
		return StatusDefinition{}, false
	}
	sd, ok := er.rules[status]
	return sd, ok
}

// IsFieldEditable reports whether field may change while a document of entityType is in status.
// Unknown types or statuses lock everything.
func (r *Registry) IsFieldEditable(entityType domain.EntityType, status domain.Status, field string) bool {
	sd, ok := r.lookup(entityType, status)
	if !ok {
		return false
	}
	return sd.Editable.Allows(field)
}

// Policy returns the field policy of a status.
func (r *Registry) Policy(entityType domain.EntityType, status domain.Status) (FieldPolicy, bool) {
	sd, ok := r.lookup(entityType, status)
	return sd.Editable, ok
}

// AllowedTransitions returns the statuses reachable in one step from status.
func (r *Registry) AllowedTransitions(entityType domain.EntityType, status domain.Status) []domain.Status {
	sd, ok := r.lookup(entityType, status)
	if !ok {
		return nil
	}
	return append([]domain.Status(nil), sd.Next...)
}

// CanTransition reports whether from -> to is a declared edge.
func (r *Registry) CanTransition(entityType domain.EntityType, from, to domain.Status) bool {
	sd, ok := r.lookup(entityType, from)
	if !ok {
		return false
	}
	for _, next := range sd.Next {
		if next == to {
			return true
		}
	}
	return false
}

// IsKnownStatus reports whether status belongs to entityType's enumeration.
func (r *Registry) IsKnownStatus(entityType domain.EntityType, status domain.Status) bool {
	_, ok := r.lookup(entityType, status)
	return ok
}

// IsTerminal reports whether no transition leaves status.
func (r *Registry) IsTerminal(entityType domain.EntityType, status domain.Status) bool {
	sd, ok := r.lookup(entityType, status)
	return ok && len(sd.Next) == 0
}

// Statuses lists the declared statuses of entityType in declaration order.
func (r *Registry) Statuses(entityType domain.EntityType) []domain.Status {
	er, ok := r.entities[entityType]
	if !ok {
		return nil
	}
	return append([]domain.Status(nil), er.order...)
}

// InitialStatus is the status new documents of entityType start in.
func (r *Registry) InitialStatus(entityType domain.EntityType) domain.Status {
	er, ok := r.entities[entityType]
	if !ok {
		return ""
	}
	return er.initial
}
