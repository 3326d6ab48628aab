package trade

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-03-05", "2024-03-05", false},
		{" 2024-03-05 ", "2024-03-05", false},
		{"2024-03-05 00:00:00", "2024-03-05", false},
		{"2024-03-05T10:00:00", "2024-03-05", false},
		{"05/03/2024", "", true},
		{"", "", true},
		{"not a date", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDate(%q) err=%v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:30:15", "09:30:15", false},
		{"9:05", "09:05:00", false},
		{"09:05", "09:05:00", false},
		{"2:15:00 PM", "14:15:00", false},
		{"25:00:00", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseClock(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClock(%q) err=%v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDateOrderingAndWeekday(t *testing.T) {
	a := Date{Year: 2024, Month: time.January, Day: 31}
	b := Date{Year: 2024, Month: time.February, Day: 1}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatalf("unexpected ordering between %s and %s", a, b)
	}
	if got := b.Weekday(); got != time.Thursday {
		t.Fatalf("weekday=%s want Thursday", got)
	}
}

func TestDateAndClockJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date  `json:"d"`
		C Clock `json:"c"`
	}{Date{Year: 2023, Month: time.December, Day: 9}, Clock{Hour: 7, Minute: 3}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"2023-12-09","c":"07:03:00"}` {
		t.Fatalf("json=%s", b)
	}
}

func TestTableAggregates(t *testing.T) {
	tb := Table{
		{Outcome: TakeProfit, PnL: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		{Outcome: StopLoss, PnL: decimal.NewNullDecimal(decimal.NewFromInt(-4))},
		{Outcome: TakeProfit},
	}
	if tb.Count(TakeProfit) != 2 || tb.Count(BreakEven) != 0 {
		t.Fatalf("unexpected counts")
	}
	if !tb.TotalPnL().Equal(decimal.NewFromInt(6)) {
		t.Fatalf("total=%s want 6", tb.TotalPnL())
	}
	if ParseOutcome(" tp ") != TakeProfit {
		t.Fatalf("ParseOutcome did not normalise")
	}
}
