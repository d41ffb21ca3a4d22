package models

import "time"

// Period is the width of an aggregation bucket
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Valid reports whether p is a supported bucket width
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// PeriodAggregate represents income and expense totals for one bucket
type PeriodAggregate struct {
	Label   string    `json:"label"`
	Income  float64   `json:"income"`
	Expense float64   `json:"expense"`
	NetFlow float64   `json:"net_flow"`
	Date    time.Time `json:"date"` // bucket start
}

// Scenario is a set of adjustments applied to historical averages
type Scenario struct {
	Name             string  `json:"name" yaml:"name"`
	IncomeGrowth     float64 `json:"income_growth" yaml:"income_growth"`
	ExpenseReduction float64 `json:"expense_reduction" yaml:"expense_reduction"`
	OneTimeIncome    float64 `json:"one_time_income" yaml:"one_time_income"`
	OneTimeExpense   float64 `json:"one_time_expense" yaml:"one_time_expense"`
	MarketGrowth     float64 `json:"market_growth" yaml:"market_growth"`
	InflationRate    float64 `json:"inflation_rate" yaml:"inflation_rate"`
	TimeFrame        int     `json:"time_frame" yaml:"time_frame"` // months
}

// RiskLevel is a coarse classification of a projected outcome
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ProjectionMetrics summarizes a scenario projection
type ProjectionMetrics struct {
	TotalProjectedIncome   float64   `json:"total_projected_income"`
	TotalProjectedExpenses float64   `json:"total_projected_expenses"`
	NetProjectedFlow       float64   `json:"net_projected_flow"`
	WorstCase              float64   `json:"worst_case"`
	BestCase               float64   `json:"best_case"`
	AverageMonthlyFlow     float64   `json:"average_monthly_flow"`
	BreakEvenPoint         int       `json:"break_even_point"` // 1-based, 0 if never reached
	RiskLevel              RiskLevel `json:"risk_level"`
}

// ForecastPoint is one value of a regression series
type ForecastPoint struct {
	Index int       `json:"index"`
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Forecast keeps historical and extrapolated points in disjoint series
type Forecast struct {
	Historical []ForecastPoint `json:"historical"`
	Projected  []ForecastPoint `json:"projected"`
	Slope      float64         `json:"slope"`
	Intercept  float64         `json:"intercept"`
}

// Volatility describes the dispersion of net flow across buckets
type Volatility struct {
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Coefficient float64 `json:"coefficient"`
}

// SavedProjection is a projection stored for later review
type SavedProjection struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Scenario  Scenario          `json:"scenario"`
	Metrics   ProjectionMetrics `json:"metrics"`
	CreatedAt time.Time         `json:"created_at"`
}
