package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/repository"
)

type EntryHandler struct {
	Repo repository.TradeEntryRepository
}

func (h *EntryHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.GET("/entries", h.listEntries)
}

// @Summary List stored entries
// @Description Only available with the postgres sink.
// @Tags entries
// @Param upload_id query string false "upload id"
// @Param user_id query string false "user id"
// @Param asset query string false "asset"
// @Param limit query int false "page size (max 500)"
// @Param offset query int false "offset"
// @Param order_by query string false "id|date|asset|pnl|created_at"
// @Param asc query bool false "ascending order"
// @Success 200 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/v1/entries [get]
func (h *EntryHandler) listEntries(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusServiceUnavailable, "entry storage disabled", nil)
		return
	}
	params := repository.ListTradeEntriesParams{
		Limit:    intQuery(c, "limit", 50),
		Offset:   intQuery(c, "offset", 0),
		UploadID: strQueryPtr(c, "upload_id"),
		UserID:   strQueryPtr(c, "user_id"),
		Asset:    strQueryPtr(c, "asset"),
		OrderBy:  strings.TrimSpace(c.Query("order_by")),
		Asc:      boolQueryPtr(c, "asc"),
	}
	items, err := h.Repo.ListTradeEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountTradeEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{
		"total":  total,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}
