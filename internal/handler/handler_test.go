package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradejournal/internal/cache"
	"tradejournal/internal/forwarder"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

const journal = `DATE,DAY,OPEN,CLOSE,ASSET,SESSION,BUY_SELL,LOTS,TP/SL,$P&L,%P&L,RATIO,RISK,AC PROFIT,TEMPORALIDAD
2024-01-01,Monday,09:00:00,09:30:00,EURUSD,London,BUY,1,TP,100,1,2,1,100,M5
2024-01-02,Tuesday,10:00:00,10:30:00,EURUSD,London,SELL,1,SL,-50,-0.5,1,1,50,M5
`

type fakeSink struct {
	err   error
	calls int
}

func (s *fakeSink) Name() string { return "fake" }

func (s *fakeSink) Store(context.Context, forwarder.Batch) error {
	s.calls++
	return s.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newEngine(t *testing.T, svc *service.UploadService, maxBytes int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	(&HomeHandler{}).Register(r)
	(&UploadHandler{Service: svc, MaxBytes: maxBytes}).Register(r)
	(&ReportHandler{Service: svc}).Register(r)
	return r
}

func newUploadService(sink forwarder.Sink, withCache bool) *service.UploadService {
	svc := &service.UploadService{Sink: sink, NewID: func() string { return "up-1" }}
	if withCache {
		svc.Cache = &cache.ReportCache{Store: cache.NewMemoryStore(), TTL: time.Hour}
	}
	return svc
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, filename, content string, fields map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	body, ct := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHome(t *testing.T) {
	r := newEngine(t, nil, 0)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "message")
}

func TestUpload_Success(t *testing.T) {
	sink := &fakeSink{}
	r := newEngine(t, newUploadService(sink, true), 0)

	rec, env := doUpload(t, r, "journal.csv", journal, map[string]string{"userId": "u-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "ok", env.Message)
	assert.Equal(t, "up-1", env.Meta["upload_id"])
	assert.EqualValues(t, 2, env.Meta["rows"])
	assert.EqualValues(t, 2, env.Meta["forwarded"])
	assert.Equal(t, 1, sink.calls)

	var report map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &report))
	for _, key := range []string{"metrics", "charts", "streaks", "day_performance", "hour_performance", "session_performance", "asset_performance"} {
		assert.Contains(t, report, key)
	}
	metrics := report["metrics"].(map[string]any)
	assert.EqualValues(t, 50, metrics["winrate"])
	assert.EqualValues(t, 2, metrics["profit_factor"])
}

func TestUpload_MissingInputs(t *testing.T) {
	sink := &fakeSink{}
	r := newEngine(t, newUploadService(sink, true), 0)

	rec, env := doUpload(t, r, "", "", map[string]string{"userId": "u-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	rec, _ = doUpload(t, r, "journal.csv", journal, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doUpload(t, r, "journal.csv", journal, map[string]string{"userId": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doUpload(t, r, "journal.csv", "", map[string]string{"userId": "u-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is empty", env.Message)

	rec, _ = doUpload(t, r, "journal.pdf", "x", map[string]string{"userId": "u-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, sink.calls)
}

func TestUpload_TooLarge(t *testing.T) {
	r := newEngine(t, newUploadService(&fakeSink{}, false), 64)
	rec, env := doUpload(t, r, "journal.csv", journal, map[string]string{"userId": "u-1"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "file too large", env.Message)
}

func TestUpload_ForwardFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("entry store http 500: down")}
	svc := newUploadService(sink, true)
	r := newEngine(t, svc, 0)

	rec, env := doUpload(t, r, "journal.csv", journal, map[string]string{"userId": "u-1"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "failed to store entries", env.Message)
	assert.Equal(t, "up-1", env.Meta["upload_id"])
	assert.Contains(t, env.Meta["details"], "down")
	assert.Empty(t, env.Data)

	// The report is still retrievable by id.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/up-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReports(t *testing.T) {
	svc := newUploadService(&fakeSink{}, true)
	r := newEngine(t, svc, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	doUpload(t, r, "journal.csv", journal, map[string]string{"userId": "u-1"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/up-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Contains(t, string(env.Data), `"total_trades":2`)
}

func TestReports_CacheDisabled(t *testing.T) {
	r := newEngine(t, newUploadService(&fakeSink{}, false), 0)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/up-1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	down := PingFunc(func(context.Context) error { return errors.New("refused") })
	(&HealthHandler{Deps: map[string]Pinger{"db": down}}).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db_unreachable")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type entryRepo struct {
	params repository.ListTradeEntriesParams
}

func (r *entryRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (r *entryRepo) InsertTradeEntriesTx(context.Context, *gorm.DB, []models.TradeEntry) error {
	return nil
}

func (r *entryRepo) CountTradeEntries(ctx context.Context, params repository.ListTradeEntriesParams) (int64, error) {
	return 1, nil
}

func (r *entryRepo) ListTradeEntries(ctx context.Context, params repository.ListTradeEntriesParams) ([]models.TradeEntry, error) {
	r.params = params
	return []models.TradeEntry{{ID: 1, UploadID: "up-1", Asset: "EURUSD"}}, nil
}

func TestEntries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	repo := &entryRepo{}
	(&EntryHandler{Repo: repo}).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries?upload_id=up-1&limit=10&asc=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.params.UploadID)
	assert.Equal(t, "up-1", *repo.params.UploadID)
	assert.Equal(t, 10, repo.params.Limit)
	require.NotNil(t, repo.params.Asc)
	assert.True(t, *repo.params.Asc)
	assert.Nil(t, repo.params.UserID)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.EqualValues(t, 1, env.Meta["total"])
	assert.Contains(t, string(env.Data), `"asset":"EURUSD"`)

	r = gin.New()
	(&EntryHandler{}).Register(r)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
