package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	Name string
}

func (h *HomeHandler) Register(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/docs", h.docs)
}

// @Summary Welcome message
// @Tags home
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HomeHandler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the trade journal analytics API",
		"service": h.Name,
	})
}

func (h *HomeHandler) docs(c *gin.Context) {
	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.String(http.StatusOK, `# Trade Journal Analytics

Upload a trade journal spreadsheet (xlsx or csv) and get back win rate,
profit factor, streaks and day/hour/session/asset breakdowns.

## Routes

- POST /api/v1/upload (multipart: file, userId)
- GET /api/v1/reports/{upload_id}
- GET /api/v1/entries
- GET /healthz
- GET /readyz
- GET /metrics
- GET /swagger/index.html
`)
}
