package serialize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/analytics"
	"tradejournal/internal/trade"
)

func TestValue_Scalars(t *testing.T) {
	d := trade.NewDate(time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC))
	c := trade.NewClock(time.Date(0, 1, 1, 7, 5, 9, 0, time.UTC))
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"date", d, "2024-03-09"},
		{"date ptr", &d, "2024-03-09"},
		{"nil date ptr", (*trade.Date)(nil), nil},
		{"clock", c, "07:05:09"},
		{"time", time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC), "2024-03-09"},
		{"int", 7, int64(7)},
		{"uint8", uint8(3), int64(3)},
		{"float32", float32(0.5), float64(0.5)},
		{"decimal", decimal.RequireFromString("12.25"), 12.25},
		{"null decimal", decimal.NullDecimal{}, nil},
		{"valid null decimal", decimal.NewNullDecimal(decimal.RequireFromString("-1.5")), -1.5},
		{"string", "TP", "TP"},
		{"bool", true, true},
	}
	for _, tc := range cases {
		if got := Value(tc.in); got != tc.want {
			t.Fatalf("%s: got=%#v want %#v", tc.name, got, tc.want)
		}
	}
}

func TestValue_StructUsesJSONTags(t *testing.T) {
	type inner struct {
		Name    string `json:"name"`
		Skip    string `json:"-"`
		Empty   string `json:"empty,omitempty"`
		private int
	}
	type outer struct {
		Items  []inner         `json:"items"`
		Nil    []int           `json:"nil"`
		Lookup map[string]int  `json:"lookup"`
		ByHour map[int]float64 `json:"by_hour"`
		Plain  bool
	}
	got, ok := Value(outer{
		Items:  []inner{{Name: "a", Skip: "x", private: 1}},
		Lookup: map[string]int{"k": 2},
		ByHour: map[int]float64{9: 1.5},
	}).(map[string]any)
	if !ok {
		t.Fatalf("not a map")
	}

	items := got["items"].([]any)
	first := items[0].(map[string]any)
	if len(first) != 1 || first["name"] != "a" {
		t.Fatalf("item=%#v want only name", first)
	}
	if nilSlice, ok := got["nil"].([]any); !ok || len(nilSlice) != 0 {
		t.Fatalf("nil=%#v want empty list", got["nil"])
	}
	if got["lookup"].(map[string]any)["k"] != int64(2) {
		t.Fatalf("lookup=%#v", got["lookup"])
	}
	if got["by_hour"].(map[string]any)["9"] != 1.5 {
		t.Fatalf("by_hour=%#v", got["by_hour"])
	}
	if got["Plain"] != false {
		t.Fatalf("Plain=%#v", got["Plain"])
	}
}

func TestValue_ReportRoundTripsThroughJSON(t *testing.T) {
	d1, _ := trade.ParseDate("2024-01-01")
	d2, _ := trade.ParseDate("2024-01-02")
	table := trade.Table{
		{Date: &d1, Day: "Monday", Outcome: trade.TakeProfit, PnL: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		{Date: &d2, Day: "Tuesday", Outcome: trade.StopLoss, PnL: decimal.NewNullDecimal(decimal.NewFromInt(-4))},
	}
	out := Value(analytics.Analyze(table)).(map[string]any)

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	streaks := back["streaks"].(map[string]any)
	be := streaks["be"].(map[string]any)
	if be["max_streak"] != float64(0) || be["start_date"] != nil {
		t.Fatalf("be=%#v want empty streak", be)
	}
	tp := streaks["tp"].(map[string]any)
	if tp["start_date"] != "2024-01-01" {
		t.Fatalf("tp=%#v", tp)
	}
	cum := back["charts"].(map[string]any)["cumulative_pnl"].(map[string]any)
	dates := cum["dates"].([]any)
	if len(dates) != 2 || dates[1] != "2024-01-02" {
		t.Fatalf("dates=%#v", dates)
	}
	if _, ok := back["asset_performance"].([]any); !ok {
		t.Fatalf("asset_performance=%#v want list", back["asset_performance"])
	}
}
