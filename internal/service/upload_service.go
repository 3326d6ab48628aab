package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"tradejournal/internal/analytics"
	"tradejournal/internal/audit"
	"tradejournal/internal/cache"
	"tradejournal/internal/forwarder"
	"tradejournal/internal/ingest"
	"tradejournal/internal/logger"
	"tradejournal/internal/metrics"
	"tradejournal/internal/serialize"
	"tradejournal/internal/trace"
	"tradejournal/internal/trade"
)

var (
	// ErrInvalidUpload is returned before any work is done when the request
	// lacks a file name or user id.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrForward marks a failure of the entry sink. The analysis itself
	// succeeded.
	ErrForward = errors.New("failed to store entries")
)

// Analysis is the result of running one journal file through the pipeline.
type Analysis struct {
	Table  trade.Table
	Stats  ingest.Stats
	Report analytics.Report
}

// AnalyzeFile decodes, cleans and analyzes one spreadsheet.
func AnalyzeFile(ctx context.Context, filename string, r io.Reader) (*Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "ingest.read", attribute.String("filename", filename))
	start := time.Now()
	rows, err := ingest.Read(filename, r)
	metrics.ObserveStage("read", start)
	trace.End(span, err)
	if err != nil {
		return nil, err
	}

	_, span = trace.StartSpan(ctx, "ingest.clean")
	start = time.Now()
	table, stats := ingest.Clean(rows)
	metrics.ObserveStage("clean", start)
	span.SetAttributes(attribute.Int("rows", stats.Rows), attribute.Int("dropped", stats.Dropped))
	trace.End(span, nil)

	_, span = trace.StartSpan(ctx, "analytics.analyze")
	start = time.Now()
	report := analytics.Analyze(table)
	metrics.ObserveStage("analyze", start)
	trace.End(span, nil)

	return &Analysis{Table: table, Stats: stats, Report: report}, nil
}

type UploadRequest struct {
	Filename string
	UserID   string
	Body     io.Reader
}

type UploadResult struct {
	UploadID  string
	Stats     ingest.Stats
	Report    any
	Sink      string
	Forwarded int
}

// UploadService runs an upload end to end: analyze, cache the report, then
// forward the cleaned entries.
type UploadService struct {
	Sink   forwarder.Sink
	Cache  *cache.ReportCache
	Logger *zap.Logger
	NewID  func() string
}

// Process returns a result whenever the analysis succeeded, including when
// forwarding fails; in that case the error wraps ErrForward.
func (s *UploadService) Process(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidUpload)
	}
	if strings.TrimSpace(req.Filename) == "" || req.Body == nil {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidUpload)
	}

	ctx, span := trace.StartSpan(ctx, "upload.process", attribute.String("user_id", userID))
	result, err := s.process(ctx, req, userID)
	trace.End(span, err)

	switch {
	case err == nil:
		metrics.Uploads.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrForward):
		metrics.Uploads.WithLabelValues("forward_failed").Inc()
	default:
		metrics.Uploads.WithLabelValues("error").Inc()
	}
	return result, err
}

func (s *UploadService) process(ctx context.Context, req UploadRequest, userID string) (*UploadResult, error) {
	log := logger.WithContext(ctx, s.Logger)

	analysis, err := AnalyzeFile(ctx, req.Filename, req.Body)
	if err != nil {
		log.Warn("upload analysis failed", zap.String("filename", req.Filename), zap.Error(err))
		return nil, fmt.Errorf("analyze %s: %w", req.Filename, err)
	}
	metrics.Rows.WithLabelValues("kept").Add(float64(analysis.Stats.Rows))
	metrics.Rows.WithLabelValues("dropped").Add(float64(analysis.Stats.Dropped))

	result := &UploadResult{
		UploadID: s.newID(),
		Stats:    analysis.Stats,
		Report:   serialize.Value(analysis.Report),
		Sink:     s.sinkName(),
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, result.UploadID, result.Report); err != nil {
			log.Warn("report cache put failed", zap.String("upload_id", result.UploadID), zap.Error(err))
		}
	}

	entries := forwarder.NewEntries(analysis.Table, userID)
	if err := s.forward(ctx, forwarder.Batch{UploadID: result.UploadID, UserID: userID, Entries: entries}); err != nil {
		log.Error("forward entries failed",
			zap.String("upload_id", result.UploadID),
			zap.String("sink", result.Sink),
			zap.Int("entries", len(entries)),
			zap.Error(err),
		)
		audit.LogBestEffort(ctx, "tradejournal_forward_failed", "warn", map[string]any{
			"upload_id": result.UploadID,
			"sink":      result.Sink,
			"error":     err.Error(),
		})
		return result, fmt.Errorf("%w: %w", ErrForward, err)
	}
	result.Forwarded = len(entries)

	log.Info("upload processed",
		zap.String("upload_id", result.UploadID),
		zap.Int("rows", analysis.Stats.Rows),
		zap.Int("dropped", analysis.Stats.Dropped),
		zap.Int("forwarded", result.Forwarded),
	)
	return result, nil
}

func (s *UploadService) forward(ctx context.Context, batch forwarder.Batch) error {
	if s.Sink == nil {
		return nil
	}
	ctx, span := trace.StartSpan(ctx, "forwarder.store",
		attribute.String("sink", s.Sink.Name()),
		attribute.Int("entries", len(batch.Entries)),
	)
	start := time.Now()
	err := s.Sink.Store(ctx, batch)
	metrics.ObserveStage("forward", start)
	metrics.Forwards.WithLabelValues(s.Sink.Name(), metrics.Result(err)).Inc()
	trace.End(span, err)
	return err
}

func (s *UploadService) sinkName() string {
	if s.Sink == nil {
		return forwarder.NopSink{}.Name()
	}
	return s.Sink.Name()
}

func (s *UploadService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Report returns a cached report by upload id.
func (s *UploadService) Report(ctx context.Context, uploadID string) ([]byte, bool, error) {
	if s.Cache == nil {
		return nil, false, cache.ErrDisabled
	}
	raw, found, err := s.Cache.Get(ctx, uploadID)
	return raw, found, err
}

// SweepCache drops expired reports from the in-memory cache.
func (s *UploadService) SweepCache(ctx context.Context) int {
	n := s.Cache.Sweep(ctx)
	if m, ok := s.cacheStore().(*cache.MemoryStore); ok {
		metrics.CachedReports.Set(float64(m.Len()))
	}
	return n
}

func (s *UploadService) cacheStore() cache.Store {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Store
}
