package repository

import (
	"context"

	"gorm.io/gorm"

	"tradejournal/internal/models"
)

// TradeEntryRepository persists forwarded journal rows.
type TradeEntryRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	InsertTradeEntriesTx(ctx context.Context, tx *gorm.DB, items []models.TradeEntry) error
	CountTradeEntries(ctx context.Context, params ListTradeEntriesParams) (int64, error)
	ListTradeEntries(ctx context.Context, params ListTradeEntriesParams) ([]models.TradeEntry, error)
}

type ListTradeEntriesParams struct {
	Limit    int
	Offset   int
	UploadID *string
	UserID   *string
	Asset    *string
	OrderBy  string
	Asc      *bool
}
