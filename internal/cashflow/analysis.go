package cashflow

import (
	"math"
	"sort"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
	"github.com/shopspring/decimal"
)

// UncategorizedName labels transactions whose category is unknown
const UncategorizedName = "Sin categoría"

// Compare returns the percent change from previous to current, or 0 when
// there is no previous value
func Compare(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// Breakdown totals transactions of one type per category, largest first
func Breakdown(txs []models.Transaction, categories []models.Category, typ models.TransactionType) []models.CategoryShare {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	sums := make(map[int64]decimal.Decimal)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			continue
		}
		sums[tx.CategoryID] = sums[tx.CategoryID].Add(amount)
		total = total.Add(amount)
	}

	out := make([]models.CategoryShare, 0, len(sums))
	for id, sum := range sums {
		name, ok := names[id]
		if !ok {
			name = UncategorizedName
		}
		share := models.CategoryShare{CategoryID: id, Name: name, Amount: sum.InexactFloat64()}
		if !total.IsZero() {
			share.Percentage = sum.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount == out[j].Amount {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Amount > out[j].Amount
	})
	return out
}

// Analyze measures how much net flow moves between buckets
func Analyze(history []models.PeriodAggregate) models.Volatility {
	var v models.Volatility
	if len(history) == 0 {
		return v
	}
	for _, p := range history {
		v.Mean += p.NetFlow
	}
	v.Mean /= float64(len(history))

	for _, p := range history {
		d := p.NetFlow - v.Mean
		v.StdDev += d * d
	}
	v.StdDev = math.Sqrt(v.StdDev / float64(len(history)))
	if v.Mean != 0 {
		v.Coefficient = v.StdDev / math.Abs(v.Mean)
	}
	return v
}

// SeasonalFactor compares one calendar month to the overall average;
// 1.0 means an average month
type SeasonalFactor struct {
	Month   time.Month `json:"month"`
	Income  float64    `json:"income"`
	Expense float64    `json:"expense"`
}

// Seasonality returns a factor for every calendar month present in history
func Seasonality(history []models.PeriodAggregate) []SeasonalFactor {
	avgIncome, avgExpense := Averages(history)

	type acc struct {
		income, expense float64
		n               int
	}
	byMonth := make(map[time.Month]*acc)
	for _, p := range history {
		a, ok := byMonth[p.Date.Month()]
		if !ok {
			a = &acc{}
			byMonth[p.Date.Month()] = a
		}
		a.income += p.Income
		a.expense += p.Expense
		a.n++
	}

	out := make([]SeasonalFactor, 0, len(byMonth))
	for month, a := range byMonth {
		f := SeasonalFactor{Month: month}
		if avgIncome != 0 {
			f.Income = a.income / float64(a.n) / avgIncome
		}
		if avgExpense != 0 {
			f.Expense = a.expense / float64(a.n) / avgExpense
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
