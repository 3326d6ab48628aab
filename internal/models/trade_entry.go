package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TradeEntry is one cleaned journal row stored by the postgres sink.
type TradeEntry struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UploadID string `gorm:"type:varchar(36);not null;index" json:"upload_id"`
	UserID   string `gorm:"type:varchar(100);not null;index" json:"user_id"`
	Position int    `gorm:"not null" json:"position"`

	Date      *datatypes.Date `gorm:"type:date;index" json:"date"`
	Day       string          `gorm:"type:varchar(20)" json:"day"`
	Open      *datatypes.Time `gorm:"type:time" json:"open"`
	Close     *datatypes.Time `gorm:"type:time" json:"close"`
	Asset     string          `gorm:"type:varchar(50);index" json:"asset"`
	Session   string          `gorm:"type:varchar(50)" json:"session"`
	BuySell   string          `gorm:"column:buy_sell;type:varchar(10)" json:"buy_sell"`
	Outcome   string          `gorm:"type:varchar(10)" json:"outcome"`
	Timeframe string          `gorm:"type:varchar(20)" json:"timeframe"`

	Lots          *decimal.Decimal `gorm:"type:numeric(20,6)" json:"lots"`
	PnL           *decimal.Decimal `gorm:"column:pnl;type:numeric(30,10)" json:"pnl"`
	PnLPercentage *decimal.Decimal `gorm:"column:pnl_percentage;type:numeric(20,10)" json:"pnl_percentage"`
	Ratio         *decimal.Decimal `gorm:"type:numeric(20,10)" json:"ratio"`
	Risk          *decimal.Decimal `gorm:"type:numeric(20,10)" json:"risk"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (TradeEntry) TableName() string {
	return "trade_entries"
}
