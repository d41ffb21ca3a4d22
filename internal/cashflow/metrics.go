package cashflow

import (
	"github.com/Dan9191/finpyme/internal/models"
)

// Variance band used for worst and best cases
const variance = 0.20

// ComputeMetrics summarizes projected buckets. Empty input yields zero
// metrics with medium risk.
func ComputeMetrics(history, projected []models.PeriodAggregate) models.ProjectionMetrics {
	m := models.ProjectionMetrics{RiskLevel: models.RiskMedium}
	if len(history) == 0 || len(projected) == 0 {
		return m
	}

	cumulative := 0.0
	for i, p := range projected {
		m.TotalProjectedIncome += p.Income
		m.TotalProjectedExpenses += p.Expense
		cumulative += p.NetFlow
		if m.BreakEvenPoint == 0 && cumulative >= 0 {
			m.BreakEvenPoint = i + 1
		}
	}

	m.NetProjectedFlow = m.TotalProjectedIncome - m.TotalProjectedExpenses
	m.WorstCase = m.TotalProjectedIncome*(1-variance) - m.TotalProjectedExpenses*(1+variance)
	m.BestCase = m.TotalProjectedIncome*(1+variance) - m.TotalProjectedExpenses*(1-variance)
	m.AverageMonthlyFlow = m.NetProjectedFlow / float64(len(projected))

	avgIncome, _ := Averages(history)
	m.RiskLevel = ClassifyRisk(m.WorstCase, m.NetProjectedFlow, avgIncome)
	return m
}

// ClassifyRisk grades a projection. High needs a strictly negative worst
// case and a net flow under two months of income; low needs a net flow
// above six months of income.
func ClassifyRisk(worstCase, netFlow, avgIncome float64) models.RiskLevel {
	switch {
	case worstCase < 0 && netFlow < 2*avgIncome:
		return models.RiskHigh
	case netFlow > 6*avgIncome:
		return models.RiskLow
	default:
		return models.RiskMedium
	}
}
