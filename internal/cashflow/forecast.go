package cashflow

import (
	"github.com/Dan9191/finpyme/internal/models"
)

// Regression fits netFlow = slope*index + intercept by ordinary least
// squares. With fewer than two points the slope is 0.
func Regression(history []models.PeriodAggregate) (slope, intercept float64) {
	n := float64(len(history))
	if n == 0 {
		return 0, 0
	}

	var meanX, meanY float64
	for i, p := range history {
		meanX += float64(i)
		meanY += p.NetFlow
	}
	meanX /= n
	meanY /= n

	var sxx, sxy float64
	for i, p := range history {
		dx := float64(i) - meanX
		sxx += dx * dx
		sxy += dx * (p.NetFlow - meanY)
	}
	if sxx == 0 {
		return 0, meanY
	}
	slope = sxy / sxx
	return slope, meanY - slope*meanX
}

// Forecast extrapolates the net flow trend n buckets ahead. Historical and
// projected points never share an index.
func Forecast(history []models.PeriodAggregate, period models.Period, n int) models.Forecast {
	slope, intercept := Regression(history)
	f := models.Forecast{
		Historical: make([]models.ForecastPoint, 0, len(history)),
		Projected:  make([]models.ForecastPoint, 0, n),
		Slope:      slope,
		Intercept:  intercept,
	}
	for i, p := range history {
		f.Historical = append(f.Historical, models.ForecastPoint{Index: i, Label: p.Label, Date: p.Date, Value: p.NetFlow})
	}
	if len(history) == 0 {
		return f
	}

	last := history[len(history)-1].Date
	for j := 1; j <= n; j++ {
		idx := len(history) - 1 + j
		date := bucketStart(period, last, j)
		f.Projected = append(f.Projected, models.ForecastPoint{
			Index: idx,
			Label: Label(period, date),
			Date:  date,
			Value: slope*float64(idx) + intercept,
		})
	}
	return f
}
