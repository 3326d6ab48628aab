package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tradejournal/internal/trade"
)

var hundred = decimal.NewFromInt(100)

// Stats summarises what cleaning did to an upload.
type Stats struct {
	Rows         int `json:"rows"`
	Dropped      int `json:"dropped"`
	InvalidDates int `json:"invalid_dates"`
	InvalidOpens int `json:"invalid_open_times"`
}

// Clean drops rows without a DATE or %P&L cell and coerces the rest into
// the typed schema. Cells that fail to coerce become missing values; they
// never reject the row.
func Clean(rows []RawRow) (trade.Table, Stats) {
	table := make(trade.Table, 0, len(rows))
	var stats Stats
	for _, raw := range rows {
		if blank(raw.Date) || blank(raw.PnLPercent) {
			stats.Dropped++
			continue
		}
		t := trade.Trade{
			Date:          coerceDate(raw.Date),
			Day:           strings.TrimSpace(raw.Day),
			Open:          coerceClock(raw.Open),
			Close:         coerceClock(raw.Close),
			Asset:         strings.TrimSpace(raw.Asset),
			Session:       strings.TrimSpace(raw.Session),
			BuySell:       strings.TrimSpace(raw.BuySell),
			Lots:          coerceNumber(raw.Lots),
			Outcome:       trade.ParseOutcome(raw.Outcome),
			Timeframe:     strings.TrimSpace(raw.Timeframe),
			PnL:           coerceNumber(raw.PnL),
			PnLPercent:    coercePercent(raw.PnLPercent),
			Ratio:         coerceNumber(raw.Ratio),
			Risk:          coerceNumber(raw.Risk),
			AccountProfit: coerceNumber(raw.AccountProfit),
		}
		if t.Date == nil {
			stats.InvalidDates++
		}
		if t.Open == nil {
			stats.InvalidOpens++
		}
		table = append(table, t)
	}
	stats.Rows = len(table)
	return table, stats
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func coerceDate(raw string) *trade.Date {
	if d, err := trade.ParseDate(raw); err == nil {
		return &d
	}
	// Workbooks read with raw cell values carry dates as serial day numbers.
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !finite(serial) || serial <= 0 {
		return nil
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	d := trade.NewDate(t)
	return &d
}

func coerceClock(raw string) *trade.Clock {
	if c, err := trade.ParseClock(raw); err == nil {
		return &c
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	// Time-only cells are stored as a fraction of a day.
	if err != nil || !finite(serial) || serial < 0 || serial >= 1 {
		return nil
	}
	secs := int(math.Round(serial * 86400))
	if secs >= 86400 {
		secs = 86399
	}
	c := trade.Clock{Hour: secs / 3600, Minute: secs % 3600 / 60, Second: secs % 60}
	return &c
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func coerceNumber(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// coercePercent rescales whole-number percentages (5 -> 0.05).
func coercePercent(raw string) decimal.NullDecimal {
	n := coerceNumber(raw)
	if !n.Valid {
		return n
	}
	return decimal.NewNullDecimal(n.Decimal.Div(hundred))
}
