package service

import (
	"context"
	"math"

	"github.com/Dan9191/finpyme/internal/cashflow"
	"github.com/Dan9191/finpyme/internal/chart"
	"github.com/Dan9191/finpyme/internal/currency"
	"github.com/Dan9191/finpyme/internal/models"
)

// ProjectionRequest selects a scenario, either a named preset or an explicit
// one, and the history it is applied to
type ProjectionRequest struct {
	Preset     string           `json:"preset"`
	Scenario   *models.Scenario `json:"scenario"`
	Period     models.Period    `json:"period"`
	History    int              `json:"history"`
	Currency   string           `json:"currency"`
	DollarType string           `json:"dollar_type"`
}

// ProjectionResult holds the scenario projection and, separately, the
// regression forecast over the same history
type ProjectionResult struct {
	ID         int64                    `json:"id"`
	Settings   currency.Settings        `json:"settings"`
	History    []models.PeriodAggregate `json:"history"`
	Projection cashflow.Projection      `json:"projection"`
	Forecast   models.Forecast          `json:"forecast"`
	Formatted  map[string]string        `json:"formatted"`
	Charts     []chart.Series           `json:"charts"`
}

func (s *Service) resolveScenario(req ProjectionRequest, v *ValidationError) models.Scenario {
	if req.Scenario != nil {
		sc := *req.Scenario
		if sc.Name == "" {
			sc.Name = "custom"
		}
		validateScenario(sc, v)
		return sc
	}

	name := req.Preset
	if name == "" {
		name = "base"
	}
	sc, ok := cashflow.FindPreset(s.presets, name)
	if !ok {
		v.Add("preset", "is not a known scenario")
	}
	return sc
}

func validateScenario(sc models.Scenario, v *ValidationError) {
	pct := map[string]float64{
		"scenario.income_growth":  sc.IncomeGrowth,
		"scenario.market_growth":  sc.MarketGrowth,
		"scenario.inflation_rate": sc.InflationRate,
	}
	for field, value := range pct {
		if math.IsNaN(value) || value < -100 || value > 1000 {
			v.Add(field, "must be between -100 and 1000")
		}
	}
	if math.IsNaN(sc.ExpenseReduction) || sc.ExpenseReduction < -1000 || sc.ExpenseReduction > 100 {
		v.Add("scenario.expense_reduction", "must be between -1000 and 100")
	}
	if sc.OneTimeIncome < 0 || math.IsNaN(sc.OneTimeIncome) {
		v.Add("scenario.one_time_income", "must not be negative")
	}
	if sc.OneTimeExpense < 0 || math.IsNaN(sc.OneTimeExpense) {
		v.Add("scenario.one_time_expense", "must not be negative")
	}
	if sc.TimeFrame < 1 || sc.TimeFrame > 60 {
		v.Add("scenario.time_frame", "must be between 1 and 60 months")
	}
}

// Project applies a scenario to the user's history, stores the resulting
// metrics and returns the full result
func (s *Service) Project(ctx context.Context, userID int64, req ProjectionRequest) (*ProjectionResult, error) {
	var v ValidationError
	q := WindowQuery{Period: req.Period, Count: req.History, Currency: req.Currency, DollarType: req.DollarType}
	q.normalize(6, &v)
	sc := s.resolveScenario(req, &v)
	if v.HasErrors() {
		return nil, &v
	}

	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := cashflow.Bucket(txs, q.Period, q.Count, s.now())
	projection := cashflow.Project(history, q.Period, sc)
	forecast := cashflow.Forecast(history, q.Period, sc.TimeFrame)

	saved := &models.SavedProjection{UserID: userID, Scenario: sc, Metrics: projection.Metrics}
	if err := s.repo.CreateProjection(ctx, saved); err != nil {
		return nil, err
	}

	conv := s.converterFor(userID, q.Currency, q.DollarType)
	m := projection.Metrics
	result := &ProjectionResult{
		ID:         saved.ID,
		Settings:   conv.Settings(),
		History:    history,
		Projection: projection,
		Forecast:   forecast,
		Formatted: map[string]string{
			"total_projected_income":   conv.FormatAmount(m.TotalProjectedIncome, true),
			"total_projected_expenses": conv.FormatAmount(m.TotalProjectedExpenses, true),
			"net_projected_flow":       conv.FormatAmount(m.NetProjectedFlow, true),
			"worst_case":               conv.FormatAmount(m.WorstCase, true),
			"best_case":                conv.FormatAmount(m.BestCase, true),
			"average_monthly_flow":     conv.FormatAmount(m.AverageMonthlyFlow, true),
		},
		Charts: projectionCharts(conv, projection, forecast),
	}

	s.log.Infof("Projection %d for user %d: scenario=%s net=%.2f risk=%s",
		saved.ID, userID, sc.Name, m.NetProjectedFlow, m.RiskLevel)
	return result, nil
}

// projectionCharts shares one scale between the historical and forecast net
// flow series so both segments render on the same axis
func projectionCharts(conv *currency.Converter, p cashflow.Projection, f models.Forecast) []chart.Series {
	opts := chart.OptionsFor(conv.Settings().Display)

	projected := make([]float64, len(p.Periods))
	for i, b := range p.Periods {
		projected[i] = conv.ToDisplay(b.NetFlow)
	}
	historical := make([]float64, len(f.Historical))
	for i, pt := range f.Historical {
		historical[i] = conv.ToDisplay(pt.Value)
	}
	trend := make([]float64, len(f.Projected))
	for i, pt := range f.Projected {
		trend[i] = conv.ToDisplay(pt.Value)
	}

	all := append(append(append([]float64{}, historical...), trend...), projected...)
	format := chart.TickFormatter(all, opts)
	scale := chart.DetermineScale(all)
	build := func(name string, values []float64) chart.Series {
		labels := make([]string, len(values))
		for i, v := range values {
			labels[i] = format(v)
		}
		return chart.Series{Name: name, Scale: scale, Values: values, Labels: labels}
	}
	return []chart.Series{
		build("historical_net_flow", historical),
		build("forecast_net_flow", trend),
		build("scenario_net_flow", projected),
	}
}

// ListProjections returns the saved projections of userID
func (s *Service) ListProjections(ctx context.Context, userID int64) ([]models.SavedProjection, error) {
	return s.repo.ListProjections(ctx, userID)
}
