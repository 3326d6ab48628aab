package forwarder

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/trade"
)

// Entry is the outbound shape of one cleaned row. Missing values are sent
// as null.
type Entry struct {
	UserID        string              `json:"userId"`
	Date          *trade.Date         `json:"date"`
	Day           string              `json:"day"`
	Open          *trade.Clock        `json:"open"`
	Close         *trade.Clock        `json:"close"`
	Asset         string              `json:"asset"`
	Session       string              `json:"session"`
	BuySell       string              `json:"buySell"`
	Lots          decimal.NullDecimal `json:"lots"`
	Outcome       trade.Outcome       `json:"tpSlBe"`
	PnL           decimal.NullDecimal `json:"pnl"`
	PnLPercentage decimal.NullDecimal `json:"pnlPercentage"`
	Ratio         decimal.NullDecimal `json:"ratio"`
	Risk          decimal.NullDecimal `json:"risk"`
	Timeframe     string              `json:"temporalidad"`
}

func NewEntries(table trade.Table, userID string) []Entry {
	out := make([]Entry, 0, len(table))
	for _, t := range table {
		out = append(out, Entry{
			UserID:        userID,
			Date:          t.Date,
			Day:           t.Day,
			Open:          t.Open,
			Close:         t.Close,
			Asset:         t.Asset,
			Session:       t.Session,
			BuySell:       t.BuySell,
			Lots:          t.Lots,
			Outcome:       t.Outcome,
			PnL:           t.PnL,
			PnLPercentage: t.PnLPercent,
			Ratio:         t.Ratio,
			Risk:          t.Risk,
			Timeframe:     t.Timeframe,
		})
	}
	return out
}
