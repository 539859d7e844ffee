package enmmodels

import "time"

// Period selects the time window applied to readings when aggregating
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// IsValid reports whether p is one of the known period selectors
func (p Period) IsValid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodTotal:
		return true
	}
	return false
}

// LowerBound resolves the inclusive lower time bound for the period relative
// to now. The second return is false for PeriodTotal, which has no bound.
func (p Period) LowerBound(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodToday:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

// ParsedQuery is what the message parser extracts from free text.
// A nil DeviceID means "all devices".
type ParsedQuery struct {
	DeviceID *int   `json:"device_id"`
	Period   Period `json:"period"`
}

// DeviceConsumption holds the per-device statistics of one report.
// Money and energy fields are rendered with two decimals for display.
type DeviceConsumption struct {
	DeviceName    string     `json:"device_name"`
	Port          string     `json:"port"`
	TotalWh       string     `json:"total_wh"`
	TotalKWh      string     `json:"total_kwh"`
	EstimatedCost string     `json:"estimated_cost"`
	ReadingCount  int        `json:"reading_count"`
	TotalMinutes  float64    `json:"total_minutes"`
	LastReadingAt *time.Time `json:"last_reading_at"`
}

// ConsumptionSummary is the element-wise sum of all device rows of a report
type ConsumptionSummary struct {
	TotalWh   string `json:"total_wh"`
	TotalKWh  string `json:"total_kwh"`
	TotalCost string `json:"total_cost"`
}

// ConsumptionReport is the aggregation result for one device filter + period
type ConsumptionReport struct {
	Period  Period              `json:"period"`
	Summary ConsumptionSummary  `json:"summary"`
	Devices []DeviceConsumption `json:"devices"`
}
