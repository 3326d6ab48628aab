package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradejournal/internal/ingest"
	"tradejournal/internal/service"
)

type UploadHandler struct {
	Service  *service.UploadService
	MaxBytes int64
	Logger   *zap.Logger
}

func (h *UploadHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.POST("/upload", h.upload)
}

// @Summary Analyze a trade journal
// @Description Parses an xlsx/csv journal, returns the analytics report and forwards the cleaned entries.
// @Tags upload
// @Accept multipart/form-data
// @Param file formData file true "journal spreadsheet (.xlsx or .csv)"
// @Param userId formData string true "owner of the entries"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Failure 413 {object} apiResponse
// @Failure 502 {object} apiResponse
// @Router /api/v1/upload [post]
func (h *UploadHandler) upload(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	if h.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, http.StatusRequestEntityTooLarge, "file too large", map[string]any{"max_bytes": tooLarge.Limit})
			return
		}
		Error(c, http.StatusBadRequest, "file or userId not provided", nil)
		return
	}
	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		Error(c, http.StatusBadRequest, "userId is required", nil)
		return
	}
	if strings.TrimSpace(fh.Filename) == "" || fh.Size == 0 {
		Error(c, http.StatusBadRequest, "file is empty", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.Service.Process(c.Request.Context(), service.UploadRequest{
		Filename: fh.Filename,
		UserID:   userID,
		Body:     f,
	})
	if res != nil {
		c.Set("upload_id", res.UploadID)
	}
	if err != nil {
		h.fail(c, res, err)
		return
	}

	Ok(c, res.Report, map[string]any{
		"upload_id":          res.UploadID,
		"rows":               res.Stats.Rows,
		"dropped":            res.Stats.Dropped,
		"invalid_dates":      res.Stats.InvalidDates,
		"invalid_open_times": res.Stats.InvalidOpens,
		"sink":               res.Sink,
		"forwarded":          res.Forwarded,
	})
}

func (h *UploadHandler) fail(c *gin.Context, res *service.UploadResult, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUpload),
		errors.Is(err, ingest.ErrEmptyFile),
		errors.Is(err, ingest.ErrUnsupportedFormat):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrForward):
		meta := map[string]any{"details": err.Error()}
		if res != nil {
			meta["upload_id"] = res.UploadID
			meta["sink"] = res.Sink
		}
		Error(c, http.StatusBadGateway, service.ErrForward.Error(), meta)
	default:
		if h.Logger != nil {
			h.Logger.Warn("upload failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}
