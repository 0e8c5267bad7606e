// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/imob-backoffice/internal/services"
)

// maxAuditBody caps how much of a request body is copied into an audit row.
const maxAuditBody = 64 * 1024

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.ClientIP(),
		}
		if user, ok := CurrentUser(c); ok {
			fields["user_id"] = user.ID.String()
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}

// AuditLogMiddleware records every mutating request once the handler has
// run. The write is synchronous so no goroutine outlives the request.
func AuditLogMiddleware(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for reads and health checks
		if !isMutating(c.Request.Method) || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		// Read request body, JSON only
		var requestData map[string]interface{}
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			body, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			if len(body) > 0 {
				json.Unmarshal(body, &requestData)
			}
		}

		c.Next()

		entry := services.AuditEntry{
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: extractResourceType(c.Request.URL.Path),
			NewValues:    requestData,
			StatusCode:   c.Writer.Status(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}
		if user, ok := CurrentUser(c); ok {
			id := user.ID
			entry.UserID = &id
		}

		// Extract resource ID from URL if present
		if resourceID := extractResourceID(c.Request.URL.Path); resourceID != nil {
			entry.ResourceID = resourceID
		}

		if err := adminService.RecordAudit(c.Request.Context(), entry); err != nil {
			logrus.WithError(err).Error("Failed to create audit log")
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(path string) *uuid.UUID {
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if id, err := uuid.Parse(part); err == nil {
			return &id
		}
	}
	return nil
}
