package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/cache"
	"tradejournal/internal/service"
)

type ReportHandler struct {
	Service *service.UploadService
}

func (h *ReportHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.GET("/reports/:upload_id", h.getReport)
}

// @Summary Fetch a cached report
// @Tags reports
// @Param upload_id path string true "upload id returned by /api/v1/upload"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/v1/reports/{upload_id} [get]
func (h *ReportHandler) getReport(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("upload_id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "upload_id is required", nil)
		return
	}
	raw, found, err := h.Service.Report(c.Request.Context(), id)
	if errors.Is(err, cache.ErrDisabled) {
		Error(c, http.StatusServiceUnavailable, "report cache disabled", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if !found {
		Error(c, http.StatusNotFound, "report not found", map[string]any{"upload_id": id})
		return
	}
	Ok(c, json.RawMessage(raw), map[string]any{"upload_id": id})
}
