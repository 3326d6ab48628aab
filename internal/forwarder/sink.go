package forwarder

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"tradejournal/internal/config"
	"tradejournal/internal/repository"
)

// Batch is everything forwarded for one upload.
type Batch struct {
	UploadID string
	UserID   string
	Entries  []Entry
}

// Sink stores forwarded entries somewhere outside this service.
type Sink interface {
	Name() string
	Store(ctx context.Context, batch Batch) error
}

// NopSink drops every batch.
type NopSink struct{}

func (NopSink) Name() string { return config.SinkNone }

func (NopSink) Store(context.Context, Batch) error { return nil }

// New builds the sink selected by cfg.Sink. repo is only used by the
// postgres sink and may be nil otherwise.
func New(cfg config.ForwarderConfig, repo repository.TradeEntryRepository, logger *zap.Logger) (Sink, error) {
	switch cfg.Sink {
	case config.SinkHTTP, "":
		if cfg.URL == "" {
			return nil, errors.New("forwarder url is empty")
		}
		return &HTTPSink{
			URL:    cfg.URL,
			APIKey: cfg.APIKey,
			HTTP:   &http.Client{Timeout: cfg.Timeout},
			Logger: logger,
		}, nil
	case config.SinkPostgres:
		if repo == nil {
			return nil, errors.New("postgres sink requires a database")
		}
		return &RepositorySink{Repo: repo, Logger: logger}, nil
	case config.SinkNone:
		if logger != nil {
			logger.Info("forwarding disabled")
		}
		return NopSink{}, nil
	default:
		return nil, fmt.Errorf("unknown forwarder sink %q", cfg.Sink)
	}
}
