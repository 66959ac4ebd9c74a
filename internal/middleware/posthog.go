package middleware

import (
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains route patterns that are never tracked
var pathsToSkip = map[string]bool{
	"/health":             true,
	"/swagger/*any":       true,
	"/api/meta/:resource": true,
}

// apiEventName names a usage event after the resource and action of an API route, e.g.
// POST /api/invoices/:id/transition -> "invoices_transition", GET /api/jobs -> "jobs_list".
// It returns "" for routes outside /api.
func apiEventName(method, routePattern string) string {
	rest, ok := strings.CutPrefix(routePattern, "/api/")
	if !ok || rest == "" {
		return ""
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	resource := strings.ReplaceAll(parts[0], "-", "_")

	if len(parts) >= 3 && parts[1] == ":id" {
		return resource + "_" + parts[2]
	}
	if len(parts) == 2 && parts[1] != ":id" {
		return resource + "_" + parts[1]
	}

	byID := len(parts) == 2
	switch method {
	case http.MethodGet:
		if byID {
			return resource + "_viewed"
		}
		return resource + "_list"
	case http.MethodPost:
		return resource + "_create"
	case http.MethodPut, http.MethodPatch:
		return resource + "_update"
	case http.MethodDelete:
		return resource + "_delete"
	}
	return ""
}

// PosthogMiddleware records a usage event for every successful authenticated API request.
// A nil analytics sink disables tracking.
func PosthogMiddleware(analytics portssvc.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if analytics == nil || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Get user ID from context (set by auth middleware)
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := apiEventName(c.Request.Method, c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			props["document_id"] = id
		}
		analytics.Enqueue(userID, eventName, props)
	}
}
