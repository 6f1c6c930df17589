package mockserver

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/restkit/auth"
	"github.com/kbukum/restkit/logger"
)

const requestIDHeader = "X-Request-Id"

// ClaimsKey is the gin context key holding verified token claims.
const ClaimsKey = "claims"

// recovery recovers from panics and logs the stack.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					logger.FieldMethod, c.Request.Method,
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// requestID echoes the caller's request id, or a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs every request at a level chosen by status; the health
// endpoint is skipped.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}
		fields := logger.MergeWithDuration(logger.Fields(
			logger.FieldMethod, c.Request.Method,
			"path", path,
			logger.FieldStatusCode, status,
			"request_id", c.GetString("request_id"),
		), time.Since(start))

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}

// requireToken rejects requests whose header does not carry "{prefix} {token}"
// with a token accepted by validator. Claims are stored under ClaimsKey.
func requireToken(validator auth.TokenValidator, headerKey, headerPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.GetHeader(headerKey)
		if value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": headerKey + " header required",
			})
			return
		}

		token, ok := strings.CutPrefix(value, headerPrefix+" ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Invalid authorization header format",
			})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Invalid token",
			})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
