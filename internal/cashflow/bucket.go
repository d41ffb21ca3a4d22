// Package cashflow aggregates transactions into periods and projects them
// forward, either through a scenario over historical averages (projection)
// or through a least-squares trend (forecast).
package cashflow

import (
	"fmt"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
	"github.com/shopspring/decimal"
)

// Bucket partitions transactions into count consecutive periods, the last
// one containing now. Transactions outside the window are dropped and every
// period is present even when empty. Day, month, quarter and year buckets
// follow the calendar; week buckets are 7-day spans ending today.
func Bucket(txs []models.Transaction, period models.Period, count int, now time.Time) []models.PeriodAggregate {
	if count <= 0 {
		return nil
	}
	if !period.Valid() {
		period = models.PeriodMonth
	}

	loc := now.Location()
	start := windowStart(period, count, now)

	incomes := make([]decimal.Decimal, count)
	expenses := make([]decimal.Decimal, count)
	for _, tx := range txs {
		idx := bucketIndex(period, start, tx.Date.In(loc))
		if idx < 0 || idx >= count {
			continue
		}
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			incomes[idx] = incomes[idx].Add(amount)
		case models.TransactionExpense:
			expenses[idx] = expenses[idx].Add(amount)
		}
	}

	out := make([]models.PeriodAggregate, count)
	for i := range out {
		date := bucketStart(period, start, i)
		out[i] = models.PeriodAggregate{
			Label:   Label(period, date),
			Income:  incomes[i].InexactFloat64(),
			Expense: expenses[i].InexactFloat64(),
			NetFlow: incomes[i].Sub(expenses[i]).InexactFloat64(),
			Date:    date,
		}
	}
	return out
}

// InWindow returns the transactions Bucket would place in one of its count
// periods ending at now, in their original order
func InWindow(txs []models.Transaction, period models.Period, count int, now time.Time) []models.Transaction {
	if count <= 0 {
		return nil
	}
	if !period.Valid() {
		period = models.PeriodMonth
	}
	start := windowStart(period, count, now)
	var out []models.Transaction
	for _, tx := range txs {
		if idx := bucketIndex(period, start, tx.Date.In(now.Location())); idx >= 0 && idx < count {
			out = append(out, tx)
		}
	}
	return out
}

// windowStart returns the start of the first bucket
func windowStart(period models.Period, count int, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	back := count - 1

	switch period {
	case models.PeriodDay:
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case models.PeriodWeek:
		return time.Date(y, m, d-7*count+1, 0, 0, 0, 0, loc)
	case models.PeriodQuarter:
		q := (int(m)-1)/3*3 + 1
		return time.Date(y, time.Month(q-3*back), 1, 0, 0, 0, 0, loc)
	case models.PeriodYear:
		return time.Date(y-back, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m-time.Month(back), 1, 0, 0, 0, 0, loc)
	}
}

// bucketIndex returns the zero-based bucket of t relative to start
func bucketIndex(period models.Period, start, t time.Time) int {
	switch period {
	case models.PeriodDay:
		return floorDiv(daysBetween(start, t), 1)
	case models.PeriodWeek:
		return floorDiv(daysBetween(start, t), 7)
	case models.PeriodQuarter:
		return floorDiv(monthsBetween(start, t), 3)
	case models.PeriodYear:
		return t.Year() - start.Year()
	default:
		return monthsBetween(start, t)
	}
}

// bucketStart returns the first day of bucket i
func bucketStart(period models.Period, start time.Time, i int) time.Time {
	switch period {
	case models.PeriodDay:
		return start.AddDate(0, 0, i)
	case models.PeriodWeek:
		return start.AddDate(0, 0, 7*i)
	case models.PeriodQuarter:
		return start.AddDate(0, 3*i, 0)
	case models.PeriodYear:
		return start.AddDate(i, 0, 0)
	default:
		return start.AddDate(0, i, 0)
	}
}

// Label names a bucket by its start date
func Label(period models.Period, start time.Time) string {
	switch period {
	case models.PeriodDay:
		return start.Format("02 Jan")
	case models.PeriodWeek:
		return start.Format("02 Jan") + " - " + start.AddDate(0, 0, 6).Format("02 Jan")
	case models.PeriodQuarter:
		return fmt.Sprintf("Q%d %d", (int(start.Month())-1)/3+1, start.Year())
	case models.PeriodYear:
		return start.Format("2006")
	default:
		return start.Format("Jan 2006")
	}
}

// daysBetween counts calendar days from a to b, ignoring clock time and
// daylight saving shifts
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
