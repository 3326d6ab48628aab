package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"tradejournal/internal/config"
	"tradejournal/internal/serialize"
)

// ErrUnexpectedStatus is returned when the remote store answers with
// anything other than 201 Created.
var ErrUnexpectedStatus = errors.New("unexpected status from entry store")

// StatusError carries the downstream status and body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("entry store http %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// HTTPSink posts {"entries": [...]} to a remote store.
type HTTPSink struct {
	URL    string
	APIKey string
	HTTP   *http.Client
	Logger *zap.Logger
}

func (s *HTTPSink) Name() string { return config.SinkHTTP }

func (s *HTTPSink) Store(ctx context.Context, batch Batch) error {
	target := strings.TrimSpace(s.URL)
	if target == "" {
		return errors.New("forwarder url is empty")
	}
	payload := serialize.Value(map[string]any{"entries": batch.Entries})
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(s.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	if batch.UploadID != "" {
		req.Header.Set("X-Upload-Id", batch.UploadID)
	}

	start := time.Now()
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("post entries: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if s.Logger != nil {
		s.Logger.Debug("entries forwarded",
			zap.String("upload_id", batch.UploadID),
			zap.Int("entries", len(batch.Entries)),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}

func (s *HTTPSink) httpClient() *http.Client {
	if s.HTTP != nil {
		return s.HTTP
	}
	return &http.Client{Timeout: 15 * time.Second}
}
