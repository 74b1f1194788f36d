package middleware

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"invoice-generator/internal/models"
	"invoice-generator/internal/service"

	"github.com/gin-gonic/gin"
)

// Audit records every mutating request made by an authenticated user after
// it has been handled. Request bodies are not stored: they may carry
// passwords.
func Audit(audit *service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			return
		}
		user := CurrentUser(c)
		if user == nil {
			return
		}

		entry := &models.AuditLog{
			UserID:    user.ID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: truncate(c.Request.UserAgent(), 255),
		}
		if err := audit.Record(c.Request.Context(), entry); err != nil {
			slog.Warn("audit log write failed", "path", entry.Path, "err", err)
		}
	}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
