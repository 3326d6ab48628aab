package analytics

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/trade"
)

// Streak is the longest consecutive run of one outcome in source order.
// A zero Length means the outcome never occurs; the dates are then nil.
type Streak struct {
	Length    int         `json:"max_streak"`
	StartDate *trade.Date `json:"start_date"`
	EndDate   *trade.Date `json:"end_date"`
	PnL       float64     `json:"total_pnl"`

	start, end int
}

type Streaks struct {
	TP Streak `json:"tp"`
	SL Streak `json:"sl"`
	BE Streak `json:"be"`
}

func ComputeStreaks(table trade.Table) Streaks {
	return Streaks{
		TP: LongestStreak(table, trade.TakeProfit),
		SL: LongestStreak(table, trade.StopLoss),
		BE: LongestStreak(table, trade.BreakEven),
	}
}

// LongestStreak finds the longest run of rows tagged target. When several
// runs share the maximum length the earliest one wins.
func LongestStreak(table trade.Table, target trade.Outcome) Streak {
	best := Streak{}
	run := 0
	for i, t := range table {
		if !t.Is(target) {
			run = 0
			continue
		}
		run++
		if run > best.Length {
			best.Length = run
			best.end = i
			best.start = i - run + 1
		}
	}
	if best.Length == 0 {
		return best
	}

	pnl := decimal.Zero
	for _, t := range table[best.start : best.end+1] {
		pnl = pnl.Add(t.PnLValue())
	}
	best.StartDate = table[best.start].Date
	best.EndDate = table[best.end].Date
	best.PnL = pnl.InexactFloat64()
	return best
}

// Bounds returns the inclusive row indexes of the run; ok is false for an
// empty streak.
func (s Streak) Bounds() (start, end int, ok bool) {
	if s.Length == 0 {
		return 0, 0, false
	}
	return s.start, s.end, true
}
