package analytics

import "tradejournal/internal/trade"

// Report bundles every analysis run over one cleaned journal.
type Report struct {
	Metrics            Metrics       `json:"metrics"`
	Charts             Charts        `json:"charts"`
	Streaks            Streaks       `json:"streaks"`
	DayPerformance     []DayStat     `json:"day_performance"`
	HourPerformance    []HourStat    `json:"hour_performance"`
	SessionPerformance []SessionStat `json:"session_performance"`
	AssetPerformance   []AssetStat   `json:"asset_performance"`
}

// Analyze runs the independent aggregation passes over table. The table is
// not modified.
func Analyze(table trade.Table) Report {
	return Report{
		Metrics:            ComputeMetrics(table),
		Charts:             ComputeCharts(table),
		Streaks:            ComputeStreaks(table),
		DayPerformance:     DayPerformance(table),
		HourPerformance:    HourPerformance(table),
		SessionPerformance: SessionPerformance(table),
		AssetPerformance:   AssetPerformance(table),
	}
}
