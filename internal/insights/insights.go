// Package insights runs deterministic rules over aggregated cash flow and
// turns matches into short recommendations.
package insights

import (
	"fmt"
	"time"

	"github.com/Dan9191/finpyme/internal/currency"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/shopspring/decimal"
)

// Input is everything the rules look at
type Input struct {
	Periods      []models.PeriodAggregate // oldest first
	Expenses     []models.CategoryShare   // expense breakdown
	Transactions []models.Transaction
	Now          time.Time
}

// Rule detects one pattern. Rules are independent of each other.
type Rule interface {
	Evaluate(in Input) []models.Insight
}

// Generator runs a fixed set of rules
type Generator struct {
	rules []Rule
}

// NewGenerator builds the default rule set
func NewGenerator(dailySpendThreshold float64) *Generator {
	return &Generator{rules: []Rule{
		CategoryConcentration{Threshold: 30, HighThreshold: 50},
		Trend{Window: 3},
		SpendingRate{Days: 30, Threshold: dailySpendThreshold},
	}}
}

// NewGeneratorWithRules builds a generator over custom rules
func NewGeneratorWithRules(rules ...Rule) *Generator {
	return &Generator{rules: rules}
}

// Generate evaluates every rule; any number of them may fire
func (g *Generator) Generate(in Input) []models.Insight {
	var out []models.Insight
	for _, r := range g.rules {
		out = append(out, r.Evaluate(in)...)
	}
	return out
}

// CategoryConcentration flags expense categories above Threshold percent of
// total expenses, with high severity above HighThreshold
type CategoryConcentration struct {
	Threshold     float64
	HighThreshold float64
}

func (r CategoryConcentration) Evaluate(in Input) []models.Insight {
	var out []models.Insight
	for _, c := range in.Expenses {
		if c.Percentage <= r.Threshold {
			continue
		}
		severity := models.SeverityMedium
		if c.Percentage > r.HighThreshold {
			severity = models.SeverityHigh
		}
		out = append(out, models.Insight{
			Type:     models.InsightPattern,
			Severity: severity,
			Title:    fmt.Sprintf("Gasto concentrado en %s", c.Name),
			Message: fmt.Sprintf("%s representa el %.0f%% de tus gastos. Revisá si podés diversificar proveedores o renegociar costos.",
				c.Name, c.Percentage),
		})
	}
	return out
}

// Trend compares net flow across the last Window buckets
type Trend struct {
	Window int
}

func (r Trend) Evaluate(in Input) []models.Insight {
	if r.Window < 2 || len(in.Periods) < r.Window {
		return nil
	}
	last := in.Periods[len(in.Periods)-r.Window:]

	decreasing, increasing := true, true
	for i := 1; i < len(last); i++ {
		if !(last[i].NetFlow < last[i-1].NetFlow) {
			decreasing = false
		}
		if !(last[i].NetFlow > last[i-1].NetFlow) {
			increasing = false
		}
	}

	switch {
	case decreasing:
		return []models.Insight{{
			Type:     models.InsightAlert,
			Severity: models.SeverityHigh,
			Title:    "Flujo de caja en descenso",
			Message: fmt.Sprintf("Tu flujo neto bajó %d períodos seguidos (de %s a %s). Revisá gastos y cobranzas pendientes.",
				r.Window, currency.FormatMoney(currency.ARS, last[0].NetFlow), currency.FormatMoney(currency.ARS, last[len(last)-1].NetFlow)),
		}}
	case increasing:
		return []models.Insight{{
			Type:     models.InsightOpportunity,
			Severity: models.SeverityMedium,
			Title:    "Flujo de caja en crecimiento",
			Message: fmt.Sprintf("Tu flujo neto creció %d períodos seguidos. Es un buen momento para invertir el excedente.",
				r.Window),
		}}
	}
	return nil
}

// SpendingRate flags an average daily expense over the trailing Days above
// Threshold (ARS)
type SpendingRate struct {
	Days      int
	Threshold float64
}

func (r SpendingRate) Evaluate(in Input) []models.Insight {
	if r.Days <= 0 {
		return nil
	}
	from := in.Now.AddDate(0, 0, -r.Days)

	total := decimal.Zero
	for _, tx := range in.Transactions {
		if tx.Type != models.TransactionExpense || !tx.Date.After(from) || tx.Date.After(in.Now) {
			continue
		}
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}

	daily := total.Div(decimal.NewFromInt(int64(r.Days))).InexactFloat64()
	if daily <= r.Threshold {
		return nil
	}
	return []models.Insight{{
		Type:     models.InsightRecommendation,
		Severity: models.SeverityMedium,
		Title:    "Ritmo de gasto elevado",
		Message: fmt.Sprintf("En los últimos %d días gastaste en promedio %s por día, por encima de %s. Considerá fijar un presupuesto semanal.",
			r.Days, currency.FormatMoney(currency.ARS, daily), currency.FormatMoney(currency.ARS, r.Threshold)),
	}}
}
