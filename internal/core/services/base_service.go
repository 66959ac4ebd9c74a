package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/disposal_backoffice/internal/core/lifecycle"
	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/SscSPs/disposal_backoffice/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	lifecycle *lifecycle.Controller
	events    portssvc.EventPublisher
	analytics portssvc.Analytics
	now       func() time.Time
}

// ServiceOption configures the collaborators shared by the services.
type ServiceOption func(*BaseService)

// WithLifecycle sets the controller that enforces status rules.
func WithLifecycle(c *lifecycle.Controller) ServiceOption {
	return func(s *BaseService) {
		s.lifecycle = c
	}
}

// WithEventPublisher sets where committed status changes are announced.
func WithEventPublisher(p portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		s.events = p
	}
}

// WithAnalytics sets the product analytics sink.
func WithAnalytics(a portssvc.Analytics) ServiceOption {
	return func(s *BaseService) {
		s.analytics = a
	}
}

// WithClock overrides the time source used for audit fields.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.now = now
	}
}

func newBaseService(opts ...ServiceOption) BaseService {
	s := BaseService{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&s)
	}
	if s.lifecycle == nil {
		s.lifecycle = lifecycle.NewController(lifecycle.DefaultRegistry(), lifecycle.WithClock(s.now))
	}
	return s
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// track sends a usage event when analytics is configured.
func (s *BaseService) track(userID, event string, props map[string]any) {
	if s.analytics == nil {
		return
	}
	s.analytics.Enqueue(userID, event, props)
}
