package analytics

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/trade"
)

var hundred = decimal.NewFromInt(100)

// Metrics are the headline numbers of a journal.
type Metrics struct {
	TotalTrades  int     `json:"total_trades"`
	TotalTPs     int     `json:"total_tps"`
	TotalSLs     int     `json:"total_sls"`
	TotalBEs     int     `json:"total_bes"`
	WinRate      float64 `json:"winrate"`
	ProfitFactor float64 `json:"profit_factor"`
	PositivePnL  float64 `json:"positive_pnl"`
	NegativePnL  float64 `json:"negative_pnl"`
}

func ComputeMetrics(table trade.Table) Metrics {
	m := Metrics{TotalTrades: len(table)}
	gains, losses := decimal.Zero, decimal.Zero
	for _, t := range table {
		switch t.Outcome {
		case trade.TakeProfit:
			m.TotalTPs++
		case trade.StopLoss:
			m.TotalSLs++
		case trade.BreakEven:
			m.TotalBEs++
		}
		pnl := t.PnLValue()
		if pnl.IsPositive() {
			gains = gains.Add(pnl)
		} else if pnl.IsNegative() {
			losses = losses.Add(pnl)
		}
	}
	losses = losses.Abs()

	m.WinRate = round2(winRate(m.TotalTPs, m.TotalTrades))
	if losses.IsPositive() {
		m.ProfitFactor = round2(gains.Div(losses))
	}
	m.PositivePnL = round2(gains)
	m.NegativePnL = round2(losses)
	return m
}

// winRate is wins as a percentage of count, 0 for an empty set.
func winRate(wins, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(wins)).Mul(hundred).Div(decimal.NewFromInt(int64(count)))
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
