package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"tradejournal/internal/trade"
)

type DayStat struct {
	Day                  string  `json:"day"`
	TotalPnL             float64 `json:"total_pnl"`
	TotalOperations      int     `json:"total_operations"`
	WinRate              float64 `json:"winrate"`
	PercentageOfTotalPnL float64 `json:"percentage_of_total_pnl"`
}

type HourStat struct {
	Hour                 int     `json:"hour"`
	TotalPnL             float64 `json:"total_pnl"`
	TotalOperations      int     `json:"total_operations"`
	WinRate              float64 `json:"winrate"`
	PercentageOfTotalPnL float64 `json:"percentage_of_total_pnl"`
}

type SessionStat struct {
	Session         string  `json:"session"`
	TotalPnL        float64 `json:"total_pnl"`
	TotalOperations int     `json:"total_operations"`
	WinRate         float64 `json:"winrate"`
}

type AssetStat struct {
	Asset           string  `json:"asset"`
	TotalOperations int     `json:"total_operations"`
	TP              int     `json:"tp"`
	SL              int     `json:"sl"`
	BE              int     `json:"be"`
	WinRate         float64 `json:"winrate"`
	TotalPnL        float64 `json:"total_pnl"`
}

// tally accumulates one group while the table is scanned.
type tally struct {
	count      int
	tp, sl, be int
	pnl        decimal.Decimal
}

func (t *tally) add(tr trade.Trade) {
	t.count++
	switch tr.Outcome {
	case trade.TakeProfit:
		t.tp++
	case trade.StopLoss:
		t.sl++
	case trade.BreakEven:
		t.be++
	}
	t.pnl = t.pnl.Add(tr.PnLValue())
}

func (t *tally) winRate() float64 {
	return round2(winRate(t.tp, t.count))
}

// groups keeps first-seen key order so finalization is deterministic
// before the caller sorts.
type groups[K comparable] struct {
	keys   []K
	byKey  map[K]*tally
	absSum decimal.Decimal
}

func groupBy[K comparable](table trade.Table, key func(trade.Trade) (K, bool)) *groups[K] {
	g := &groups[K]{byKey: map[K]*tally{}}
	for _, t := range table {
		k, ok := key(t)
		if !ok {
			continue
		}
		acc, found := g.byKey[k]
		if !found {
			acc = &tally{pnl: decimal.Zero}
			g.byKey[k] = acc
			g.keys = append(g.keys, k)
		}
		acc.add(t)
	}
	g.absSum = decimal.Zero
	for _, acc := range g.byKey {
		g.absSum = g.absSum.Add(acc.pnl.Abs())
	}
	return g
}

// share is the group's absolute P&L as a percentage of the summed absolute
// group P&L, so shares across groups add up to 100.
func (g *groups[K]) share(acc *tally) float64 {
	if g.absSum.IsZero() {
		return 0
	}
	return round2(acc.pnl.Abs().Mul(hundred).Div(g.absSum))
}

func textKey(field func(trade.Trade) string) func(trade.Trade) (string, bool) {
	return func(t trade.Trade) (string, bool) {
		v := field(t)
		return v, v != ""
	}
}

func DayPerformance(table trade.Table) []DayStat {
	g := groupBy(table, textKey(func(t trade.Trade) string { return t.Day }))
	out := make([]DayStat, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.byKey[k]
		out = append(out, DayStat{
			Day:                  k,
			TotalPnL:             round2(acc.pnl),
			TotalOperations:      acc.count,
			WinRate:              acc.winRate(),
			PercentageOfTotalPnL: g.share(acc),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dayLess(out[i].Day, out[j].Day)
	})
	return out
}

func HourPerformance(table trade.Table) []HourStat {
	g := groupBy(table, func(t trade.Trade) (int, bool) {
		if t.Open == nil {
			return 0, false
		}
		return t.Open.Hour, true
	})
	out := make([]HourStat, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.byKey[k]
		out = append(out, HourStat{
			Hour:                 k,
			TotalPnL:             round2(acc.pnl),
			TotalOperations:      acc.count,
			WinRate:              acc.winRate(),
			PercentageOfTotalPnL: g.share(acc),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func SessionPerformance(table trade.Table) []SessionStat {
	g := groupBy(table, textKey(func(t trade.Trade) string { return t.Session }))
	out := make([]SessionStat, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.byKey[k]
		out = append(out, SessionStat{
			Session:         k,
			TotalPnL:        round2(acc.pnl),
			TotalOperations: acc.count,
			WinRate:         acc.winRate(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Session < out[j].Session })
	return out
}

func AssetPerformance(table trade.Table) []AssetStat {
	g := groupBy(table, textKey(func(t trade.Trade) string { return t.Asset }))
	out := make([]AssetStat, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.byKey[k]
		out = append(out, AssetStat{
			Asset:           k,
			TotalOperations: acc.count,
			TP:              acc.tp,
			SL:              acc.sl,
			BE:              acc.be,
			WinRate:         acc.winRate(),
			TotalPnL:        round2(acc.pnl),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out
}

// Journals are written in English or Spanish.
var weekdayOrder = map[string]int{
	"monday": 1, "lunes": 1,
	"tuesday": 2, "martes": 2,
	"wednesday": 3, "miercoles": 3, "miércoles": 3,
	"thursday": 4, "jueves": 4,
	"friday": 5, "viernes": 5,
	"saturday": 6, "sabado": 6, "sábado": 6,
	"sunday": 7, "domingo": 7,
}

func dayLess(a, b string) bool {
	ia, oka := weekdayOrder[strings.ToLower(a)]
	ib, okb := weekdayOrder[strings.ToLower(b)]
	switch {
	case oka && okb:
		if ia != ib {
			return ia < ib
		}
		return a < b
	case oka != okb:
		return oka
	default:
		return a < b
	}
}
