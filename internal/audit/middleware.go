package audit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func InjectClientMiddleware(c *Client) gin.HandlerFunc {
	return func(gc *gin.Context) {
		if c != nil && gc.Request != nil {
			gc.Request = gc.Request.WithContext(WithClient(gc.Request.Context(), c))
		}
		gc.Next()
	}
}

// WriteMiddleware records every non-GET /api/ request after it completes.
func WriteMiddleware(c *Client, logger *zap.Logger) gin.HandlerFunc {
	if c == nil {
		return func(gc *gin.Context) { gc.Next() }
	}
	return func(gc *gin.Context) {
		start := time.Now()
		gc.Next()

		path := gc.Request.URL.Path
		method := strings.ToUpper(gc.Request.Method)
		if !strings.HasPrefix(path, "/api/") {
			return
		}
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}

		status := gc.Writer.Status()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := c.Write(ctx, Record{
			Action: "tradejournal_http_write",
			Level:  LevelFromStatus(status),
			Details: map[string]any{
				"method":    method,
				"path":      path,
				"status":    status,
				"duration":  time.Since(start).String(),
				"upload_id": gc.GetString("upload_id"),
			},
		})
		if err != nil && logger != nil {
			logger.Debug("audit write failed", zap.Error(err))
		}
	}
}

func LevelFromStatus(status int) string {
	if status >= 500 {
		return "error"
	}
	if status >= 400 {
		return "warn"
	}
	return "info"
}
