package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	"github.com/google/uuid"
)

// TransitionContext carries who requested a transition and why.
type TransitionContext struct {
	Actor  string
	Reason string
}

// Precondition is a business rule checked before a transition is applied. It must not mutate doc.
type Precondition func(doc domain.Lifecycled, tc TransitionContext) error

type preconditionKey struct {
	entityType domain.EntityType
	target     domain.Status
}

// Controller validates and applies status transitions against a Registry.
type Controller struct {
	registry      *Registry
	preconditions map[preconditionKey][]Precondition
	now           func() time.Time
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClock overrides the time source used for status timestamps.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// WithPrecondition adds a rule checked whenever a document of entityType moves to target.
func WithPrecondition(entityType domain.EntityType, target domain.Status, p Precondition) ControllerOption {
	return func(c *Controller) {
		c.register(entityType, target, p)
	}
}

// NewController builds a controller with the built-in preconditions registered.
func NewController(registry *Registry, opts ...ControllerOption) *Controller {
	c := &Controller{
		registry:      registry,
		preconditions: make(map[preconditionKey][]Precondition),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, p := range builtinPreconditions() {
		c.register(p.entityType, p.target, p.check)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) register(entityType domain.EntityType, target domain.Status, p Precondition) {
	key := preconditionKey{entityType: entityType, target: target}
	c.preconditions[key] = append(c.preconditions[key], p)
}

// Registry returns the registry the controller enforces.
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Check reports whether doc may move to target without applying anything.
func (c *Controller) Check(doc domain.Lifecycled, target domain.Status, tc TransitionContext) error {
	entityType := doc.EntityType()
	from := doc.CurrentStatus()

	if !c.registry.IsKnownStatus(entityType, target) {
		return apperrors.NewTransitionError(string(entityType), string(from), string(target))
	}
	if target == domain.StatusRevoked && !c.registry.IsTerminal(entityType, from) {
		if err := c.checkRevocation(entityType, from, tc.Reason); err != nil {
			return err
		}
	}
	if !c.registry.CanTransition(entityType, from, target) {
		return apperrors.NewTransitionError(string(entityType), string(from), string(target))
	}
	for _, p := range c.preconditions[preconditionKey{entityType: entityType, target: target}] {
		if err := p(doc, tc); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) checkRevocation(entityType domain.EntityType, from domain.Status, reason string) error {
	if !c.registry.CanTransition(entityType, from, domain.StatusRevoked) {
		return fmt.Errorf("%w: %s in status %q cannot be revoked", apperrors.ErrRevocationDenied, entityType, from)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a reason is required", apperrors.ErrRevocationDenied)
	}
	return nil
}

// Transition moves doc to target. On success the entry timestamp for target is stamped and
// the resulting history event is returned; on failure doc is left untouched.
func (c *Controller) Transition(doc domain.Lifecycled, target domain.Status, tc TransitionContext) (domain.StatusEvent, error) {
	if err := c.Check(doc, target, tc); err != nil {
		return domain.StatusEvent{}, err
	}

	from := doc.CurrentStatus()
	now := c.now()
	reason := strings.TrimSpace(tc.Reason)

	doc.StampStatus(target, now)
	doc.SetStatus(target)
	if target == domain.StatusRevoked {
		if r, ok := doc.(interface{ SetRevocationReason(string) }); ok {
			r.SetRevocationReason(reason)
		}
	}

	return domain.StatusEvent{
		EventID:    uuid.NewString(),
		EntityType: doc.EntityType(),
		DocumentID: doc.GetID(),
		FromStatus: from,
		ToStatus:   target,
		Reason:     reason,
		Actor:      tc.Actor,
		OccurredAt: now,
	}, nil
}

// Revoke is the terminal, reason-bearing transition to revoked.
func (c *Controller) Revoke(doc domain.Lifecycled, reason, actor string) (domain.StatusEvent, error) {
	if c.registry.IsTerminal(doc.EntityType(), doc.CurrentStatus()) && doc.CurrentStatus() != domain.StatusRevoked {
		return domain.StatusEvent{}, fmt.Errorf("%w: %s in status %q cannot be revoked", apperrors.ErrRevocationDenied, doc.EntityType(), doc.CurrentStatus())
	}
	return c.Transition(doc, domain.StatusRevoked, TransitionContext{Actor: actor, Reason: reason})
}

// GuardChanges returns a FieldLockedError for the first field the status does not allow to change.
func (c *Controller) GuardChanges(entityType domain.EntityType, status domain.Status, fields []string) error {
	for _, f := range fields {
		if !c.registry.IsFieldEditable(entityType, status, f) {
			return &apperrors.FieldLockedError{EntityType: string(entityType), Status: string(status), Field: f}
		}
	}
	return nil
}

// Guard returns a single-field check bound to entityType and status, suitable for the aggregators.
func (c *Controller) Guard(entityType domain.EntityType, status domain.Status) func(field string) error {
	return func(field string) error {
		return c.GuardChanges(entityType, status, []string{field})
	}
}
