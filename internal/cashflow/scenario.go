package cashflow

import (
	"github.com/Dan9191/finpyme/internal/models"
)

// Projection is the result of applying a scenario to a history
type Projection struct {
	Scenario models.Scenario          `json:"scenario"`
	Periods  []models.PeriodAggregate `json:"periods"`
	Metrics  models.ProjectionMetrics `json:"metrics"`
}

// Averages returns mean income and expense per bucket
func Averages(history []models.PeriodAggregate) (income, expense float64) {
	if len(history) == 0 {
		return 0, 0
	}
	for _, p := range history {
		income += p.Income
		expense += p.Expense
	}
	n := float64(len(history))
	return income / n, expense / n
}

// ApplyScenario projects sc.TimeFrame buckets after the last historical one.
// Every bucket gets the adjusted historical averages; one-time amounts only
// affect the first bucket.
func ApplyScenario(history []models.PeriodAggregate, period models.Period, sc models.Scenario) []models.PeriodAggregate {
	if len(history) == 0 || sc.TimeFrame <= 0 {
		return nil
	}

	avgIncome, avgExpense := Averages(history)
	income := avgIncome * (1 + sc.IncomeGrowth/100) * (1 + sc.MarketGrowth/100)
	expense := avgExpense * (1 - sc.ExpenseReduction/100) * (1 + sc.InflationRate/100/12)

	last := history[len(history)-1].Date
	out := make([]models.PeriodAggregate, sc.TimeFrame)
	for i := range out {
		in, ex := income, expense
		if i == 0 {
			in += sc.OneTimeIncome
			ex += sc.OneTimeExpense
		}
		date := bucketStart(period, last, i+1)
		out[i] = models.PeriodAggregate{
			Label:   Label(period, date),
			Income:  in,
			Expense: ex,
			NetFlow: in - ex,
			Date:    date,
		}
	}
	return out
}

// Project applies sc to history and summarizes the outcome
func Project(history []models.PeriodAggregate, period models.Period, sc models.Scenario) Projection {
	periods := ApplyScenario(history, period, sc)
	return Projection{
		Scenario: sc,
		Periods:  periods,
		Metrics:  ComputeMetrics(history, periods),
	}
}
