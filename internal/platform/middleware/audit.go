package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// auditPathPrefix scopes the access trail to the routes that carry patient
// data. Health and metrics probes stay out of it.
const auditPathPrefix = "/api/v1/"

// AuditEntry is one recorded patient-data access: which operation was invoked,
// from where, and how it resolved.
type AuditEntry struct {
	Operation  string // first path segment under /api/v1, e.g. summaries
	Action     string // read, create, update, delete
	Method     string
	Path       string
	IPAddress  string
	UserAgent  string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries. The middleware keeps logging even
// when a recorder fails, so the trail degrades instead of blocking requests.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc adapts a function to AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns middleware that emits one structured access-trail event per
// API request, after the handler has run. Request payloads hold medical
// histories, so the trail records the access, never the content.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if !strings.HasPrefix(path, auditPathPrefix) {
				return next(c)
			}

			err := next(c)

			status := c.Response().Status
			// The error handler has not run yet, so resolve the status
			// from the error itself.
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			rid, _ := c.Get("request_id").(string)

			entry := AuditEntry{
				Operation:  operationFromPath(path),
				Action:     actionForMethod(req.Method),
				Method:     req.Method,
				Path:       path,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				RequestID:  rid,
				StatusCode: status,
				Timestamp:  time.Now().UTC(),
			}

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", rid).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "access_audit").
				Str("request_id", entry.RequestID).
				Str("operation", entry.Operation).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Str("user_agent", entry.UserAgent).
				Int("status", entry.StatusCode).
				Msg("patient_data_access")

			return err
		}
	}
}

// operationFromPath names the invoked operation from the first path segment
// under the API prefix: /api/v1/summaries/pdf audits as "summaries".
func operationFromPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, auditPathPrefix), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}

func actionForMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
