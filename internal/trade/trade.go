package trade

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Outcome is the TP/SL/BE tag a journal row closes with.
type Outcome string

const (
	TakeProfit Outcome = "TP"
	StopLoss   Outcome = "SL"
	BreakEven  Outcome = "BE"
)

// Outcomes lists the tags analytics report on, in display order.
var Outcomes = []Outcome{TakeProfit, StopLoss, BreakEven}

func ParseOutcome(raw string) Outcome {
	return Outcome(strings.ToUpper(strings.TrimSpace(raw)))
}

// Trade is one cleaned journal row. Optional fields are nil or invalid when
// the source cell was empty or could not be coerced.
type Trade struct {
	Date      *Date
	Day       string
	Open      *Clock
	Close     *Clock
	Asset     string
	Session   string
	BuySell   string
	Lots      decimal.NullDecimal
	Outcome   Outcome
	Timeframe string

	PnL           decimal.NullDecimal
	PnLPercent    decimal.NullDecimal
	Ratio         decimal.NullDecimal
	Risk          decimal.NullDecimal
	AccountProfit decimal.NullDecimal
}

// PnLValue returns the currency P&L, treating a missing value as zero.
func (t Trade) PnLValue() decimal.Decimal {
	if !t.PnL.Valid {
		return decimal.Zero
	}
	return t.PnL.Decimal
}

func (t Trade) Is(o Outcome) bool {
	return t.Outcome == o
}

// Table is a cleaned journal in source order.
type Table []Trade

func (tb Table) Count(o Outcome) int {
	n := 0
	for _, t := range tb {
		if t.Is(o) {
			n++
		}
	}
	return n
}

func (tb Table) TotalPnL() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range tb {
		sum = sum.Add(t.PnLValue())
	}
	return sum
}
