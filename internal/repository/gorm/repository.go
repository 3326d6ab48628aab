package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ repository.TradeEntryRepository = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) InsertTradeEntriesTx(ctx context.Context, tx *gorm.DB, items []models.TradeEntry) error {
	if len(items) == 0 {
		return nil
	}
	if tx == nil {
		if s == nil || s.db == nil {
			return nil
		}
		tx = s.db
	}
	return createInBatches(tx.WithContext(ctx), items, 200)
}

func (s *Store) CountTradeEntries(ctx context.Context, params repository.ListTradeEntriesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	err := tradeEntryFilters(s.db.WithContext(ctx).Model(&models.TradeEntry{}), params).Count(&total).Error
	return total, err
}

func (s *Store) ListTradeEntries(ctx context.Context, params repository.ListTradeEntriesParams) ([]models.TradeEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := tradeEntryFilters(s.db.WithContext(ctx).Model(&models.TradeEntry{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "id")
	var items []models.TradeEntry
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func tradeEntryFilters(query *gorm.DB, params repository.ListTradeEntriesParams) *gorm.DB {
	if v := trimmed(params.UploadID); v != "" {
		query = query.Where("upload_id = ?", v)
	}
	if v := trimmed(params.UserID); v != "" {
		query = query.Where("user_id = ?", v)
	}
	if v := trimmed(params.Asset); v != "" {
		query = query.Where("asset = ?", v)
	}
	return query
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

var orderColumns = map[string]struct{}{
	"id": {}, "date": {}, "asset": {}, "pnl": {}, "created_at": {},
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if _, ok := orderColumns[column]; !ok {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func createInBatches[T any](db *gorm.DB, items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return db.CreateInBatches(items, batchSize).Error
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
