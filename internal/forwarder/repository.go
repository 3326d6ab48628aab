package forwarder

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradejournal/internal/config"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/trade"
)

// RepositorySink writes entries into the trade_entries table in a single
// transaction.
type RepositorySink struct {
	Repo   repository.TradeEntryRepository
	Logger *zap.Logger
}

func (s *RepositorySink) Name() string { return config.SinkPostgres }

func (s *RepositorySink) Store(ctx context.Context, batch Batch) error {
	if s.Repo == nil {
		return fmt.Errorf("%s sink: repository missing", s.Name())
	}
	items := ToModels(batch)
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		return s.Repo.InsertTradeEntriesTx(ctx, tx, items)
	})
	if err != nil {
		return fmt.Errorf("insert trade entries: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Debug("entries stored", zap.String("upload_id", batch.UploadID), zap.Int("entries", len(items)))
	}
	return nil
}

func ToModels(batch Batch) []models.TradeEntry {
	out := make([]models.TradeEntry, 0, len(batch.Entries))
	for i, e := range batch.Entries {
		out = append(out, models.TradeEntry{
			UploadID:      batch.UploadID,
			UserID:        e.UserID,
			Position:      i,
			Date:          dateColumn(e.Date),
			Day:           e.Day,
			Open:          timeColumn(e.Open),
			Close:         timeColumn(e.Close),
			Asset:         e.Asset,
			Session:       e.Session,
			BuySell:       e.BuySell,
			Outcome:       string(e.Outcome),
			Timeframe:     e.Timeframe,
			Lots:          decimalColumn(e.Lots),
			PnL:           decimalColumn(e.PnL),
			PnLPercentage: decimalColumn(e.PnLPercentage),
			Ratio:         decimalColumn(e.Ratio),
			Risk:          decimalColumn(e.Risk),
		})
	}
	return out
}

func dateColumn(d *trade.Date) *datatypes.Date {
	if d == nil {
		return nil
	}
	v := datatypes.Date(d.Time())
	return &v
}

func timeColumn(c *trade.Clock) *datatypes.Time {
	if c == nil {
		return nil
	}
	v := datatypes.NewTime(c.Hour, c.Minute, c.Second, 0)
	return &v
}

func decimalColumn(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
