package service

import (
	"context"

	"github.com/Dan9191/finpyme/internal/cashflow"
	"github.com/Dan9191/finpyme/internal/chart"
	"github.com/Dan9191/finpyme/internal/currency"
	"github.com/Dan9191/finpyme/internal/models"
)

// WindowQuery selects the aggregation window and display currency
type WindowQuery struct {
	Period     models.Period
	Count      int
	Currency   string
	DollarType string
}

func (q *WindowQuery) normalize(defaultCount int, v *ValidationError) {
	if q.Period == "" {
		q.Period = models.PeriodMonth
	} else if !q.Period.Valid() {
		v.Add("period", "must be day, week, month, quarter or year")
	}
	if q.Count == 0 {
		q.Count = defaultCount
	} else if q.Count < 1 || q.Count > 120 {
		v.Add("count", "must be between 1 and 120")
	}
}

// KPI is a headline figure with its formatted value and change against the
// previous period
type KPI struct {
	Value         float64 `json:"value"`
	Display       float64 `json:"display"`
	Formatted     string  `json:"formatted"`
	ChangePercent float64 `json:"change_percent"`
}

// Dashboard is the summary shown on the home screen
type Dashboard struct {
	Settings         currency.Settings         `json:"settings"`
	Rate             float64                   `json:"rate"`
	Income           KPI                       `json:"income"`
	Expenses         KPI                       `json:"expenses"`
	Balance          KPI                       `json:"balance"`
	TransactionCount int                       `json:"transaction_count"`
	Periods          []models.PeriodAggregate  `json:"periods"`
	Charts           []chart.Series            `json:"charts"`
	ExpenseBreakdown []models.CategoryShare    `json:"expense_breakdown"`
	IncomeBreakdown  []models.CategoryShare    `json:"income_breakdown"`
	Volatility       models.Volatility         `json:"volatility"`
	Seasonality      []cashflow.SeasonalFactor `json:"seasonality"`
	Inflation        models.InflationRate      `json:"inflation"`
}

// Dashboard aggregates a user's transactions over the requested window
func (s *Service) Dashboard(ctx context.Context, userID int64, q WindowQuery) (*Dashboard, error) {
	var v ValidationError
	q.normalize(6, &v)
	if v.HasErrors() {
		return nil, &v
	}

	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	conv := s.converterFor(userID, q.Currency, q.DollarType)
	now := s.now()
	periods := cashflow.Bucket(txs, q.Period, q.Count, now)

	var income, expense float64
	for _, p := range periods {
		income += p.Income
		expense += p.Expense
	}
	var cur, prev models.PeriodAggregate
	if n := len(periods); n > 0 {
		cur = periods[n-1]
		if n > 1 {
			prev = periods[n-2]
		}
	}

	// Breakdowns only cover the window
	inWindow := cashflow.InWindow(txs, q.Period, q.Count, now)

	d := &Dashboard{
		Settings:         conv.Settings(),
		Rate:             conv.Rate(),
		Income:           kpi(conv, income, cashflow.Compare(cur.Income, prev.Income)),
		Expenses:         kpi(conv, expense, cashflow.Compare(cur.Expense, prev.Expense)),
		Balance:          kpi(conv, income-expense, cashflow.Compare(cur.NetFlow, prev.NetFlow)),
		TransactionCount: len(inWindow),
		Periods:          periods,
		Charts:           cashFlowCharts(conv, periods),
		ExpenseBreakdown: cashflow.Breakdown(inWindow, cats, models.TransactionExpense),
		IncomeBreakdown:  cashflow.Breakdown(inWindow, cats, models.TransactionIncome),
		Volatility:       cashflow.Analyze(periods),
		Seasonality:      cashflow.Seasonality(periods),
		Inflation:        s.inflation.Latest(),
	}
	return d, nil
}

func kpi(conv *currency.Converter, value, change float64) KPI {
	return KPI{
		Value:         value,
		Display:       conv.ToDisplay(value),
		Formatted:     conv.FormatAmount(value, true),
		ChangePercent: change,
	}
}

// cashFlowCharts converts buckets to display currency and builds income,
// expense and net series
func cashFlowCharts(conv *currency.Converter, periods []models.PeriodAggregate) []chart.Series {
	income := make([]float64, len(periods))
	expense := make([]float64, len(periods))
	net := make([]float64, len(periods))
	for i, p := range periods {
		income[i] = conv.ToDisplay(p.Income)
		expense[i] = conv.ToDisplay(p.Expense)
		net[i] = conv.ToDisplay(p.NetFlow)
	}
	opts := chart.OptionsFor(conv.Settings().Display)
	return []chart.Series{
		chart.BuildSeries("income", income, opts),
		chart.BuildSeries("expense", expense, opts),
		chart.BuildSeries("net_flow", net, opts),
	}
}
