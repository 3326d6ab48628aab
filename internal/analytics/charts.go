package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"tradejournal/internal/trade"
)

type Charts struct {
	CumulativePnL     CumulativeSeries `json:"cumulative_pnl"`
	TradeDistribution Distribution     `json:"trade_distribution"`
}

// CumulativeSeries holds parallel date/value slices for an equity curve.
type CumulativeSeries struct {
	Dates  []trade.Date `json:"dates"`
	Values []float64    `json:"values"`
}

type Distribution struct {
	TP int `json:"tp"`
	SL int `json:"sl"`
	BE int `json:"be"`
}

func ComputeCharts(table trade.Table) Charts {
	return Charts{
		CumulativePnL:     CumulativePnL(table),
		TradeDistribution: ComputeDistribution(table),
	}
}

// CumulativePnL walks dated rows in date order, keeping source order for
// rows on the same day. Rows without a date are left out of the curve.
func CumulativePnL(table trade.Table) CumulativeSeries {
	dated := make([]trade.Trade, 0, len(table))
	for _, t := range table {
		if t.Date != nil {
			dated = append(dated, t)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(*dated[j].Date)
	})

	series := CumulativeSeries{
		Dates:  make([]trade.Date, 0, len(dated)),
		Values: make([]float64, 0, len(dated)),
	}
	running := decimal.Zero
	for _, t := range dated {
		running = running.Add(t.PnLValue())
		series.Dates = append(series.Dates, *t.Date)
		series.Values = append(series.Values, running.InexactFloat64())
	}
	return series
}

func ComputeDistribution(table trade.Table) Distribution {
	return Distribution{
		TP: table.Count(trade.TakeProfit),
		SL: table.Count(trade.StopLoss),
		BE: table.Count(trade.BreakEven),
	}
}
