package cashflow

import (
	"testing"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
	"github.com/shopspring/decimal"
)

func tx(amount string, typ models.TransactionType, date time.Time) models.Transaction {
	return models.Transaction{Amount: amount, Type: typ, Date: date}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestBucketMonthPartition(t *testing.T) {
	now := day(2024, time.June, 15)
	txs := []models.Transaction{
		tx("999", models.TransactionIncome, day(2024, time.March, 31)),
		tx("100.10", models.TransactionIncome, day(2024, time.April, 1)),
		tx("50", models.TransactionExpense, day(2024, time.April, 20)),
		tx("200.20", models.TransactionIncome, day(2024, time.May, 15)),
		tx("300.30", models.TransactionIncome, day(2024, time.June, 30)),
		tx("777", models.TransactionIncome, day(2024, time.July, 1)),
		tx("oops", models.TransactionIncome, day(2024, time.May, 2)),
	}

	buckets := Bucket(txs, models.PeriodMonth, 3, now)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}

	wantLabels := []string{"Apr 2024", "May 2024", "Jun 2024"}
	wantIncome := []float64{100.10, 200.20, 300.30}
	for i, b := range buckets {
		if b.Label != wantLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Label, wantLabels[i])
		}
		if b.Income != wantIncome[i] {
			t.Errorf("bucket %d income = %v, want %v", i, b.Income, wantIncome[i])
		}
	}
	if buckets[0].Expense != 50 || buckets[0].NetFlow != 50.10 {
		t.Errorf("April = %+v, want expense 50 and net 50.10", buckets[0])
	}

	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(decimal.NewFromFloat(b.Income))
	}
	if !total.Equal(decimal.RequireFromString("600.60")) {
		t.Errorf("sum of bucket income = %s, want 600.60", total)
	}
}

func TestBucketWeekBoundaries(t *testing.T) {
	now := day(2024, time.June, 12)
	txs := []models.Transaction{
		tx("1", models.TransactionIncome, day(2024, time.May, 29)),
		tx("2", models.TransactionIncome, day(2024, time.May, 30)),
		tx("4", models.TransactionIncome, day(2024, time.June, 5)),
		tx("8", models.TransactionIncome, day(2024, time.June, 6)),
		tx("16", models.TransactionIncome, time.Date(2024, time.June, 12, 23, 59, 0, 0, time.UTC)),
		tx("32", models.TransactionIncome, day(2024, time.June, 13)),
	}

	buckets := Bucket(txs, models.PeriodWeek, 2, now)
	if buckets[0].Income != 6 || buckets[1].Income != 24 {
		t.Errorf("week incomes = %v, %v; want 6, 24", buckets[0].Income, buckets[1].Income)
	}
	if !buckets[0].Date.Equal(time.Date(2024, time.May, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first week starts %v, want May 30", buckets[0].Date)
	}
}

func TestBucketEmptyPeriodsExist(t *testing.T) {
	now := day(2024, time.March, 3)
	for _, p := range []models.Period{models.PeriodDay, models.PeriodWeek, models.PeriodMonth, models.PeriodQuarter, models.PeriodYear} {
		buckets := Bucket(nil, p, 5, now)
		if len(buckets) != 5 {
			t.Errorf("%s: got %d buckets, want 5", p, len(buckets))
			continue
		}
		for i := 1; i < len(buckets); i++ {
			if !buckets[i].Date.After(buckets[i-1].Date) {
				t.Errorf("%s: bucket %d does not follow bucket %d", p, i, i-1)
			}
		}
		last := buckets[len(buckets)-1].Date
		if last.After(now) {
			t.Errorf("%s: last bucket starts after now", p)
		}
	}

	if got := Bucket(nil, models.PeriodMonth, 0, now); got != nil {
		t.Errorf("zero count returned %v", got)
	}
}

func TestBucketQuarterAndYear(t *testing.T) {
	now := day(2024, time.May, 10)
	txs := []models.Transaction{
		tx("10", models.TransactionExpense, day(2023, time.December, 31)),
		tx("20", models.TransactionExpense, day(2024, time.January, 1)),
		tx("40", models.TransactionExpense, day(2024, time.June, 30)),
	}

	q := Bucket(txs, models.PeriodQuarter, 2, now)
	if q[0].Label != "Q1 2024" || q[1].Label != "Q2 2024" {
		t.Errorf("quarter labels = %q, %q; want Q1 2024, Q2 2024", q[0].Label, q[1].Label)
	}
	if q[0].Expense != 20 || q[1].Expense != 40 {
		t.Errorf("quarter expenses = %v, %v; want 20, 40", q[0].Expense, q[1].Expense)
	}

	y := Bucket(txs, models.PeriodYear, 2, now)
	if y[0].Expense != 10 || y[1].Expense != 60 {
		t.Errorf("year expenses = %v, %v; want 10, 60", y[0].Expense, y[1].Expense)
	}
}

func TestInWindowMatchesBucket(t *testing.T) {
	now := day(2024, time.June, 15)
	txs := []models.Transaction{
		tx("1", models.TransactionIncome, day(2024, time.March, 31)),
		tx("2", models.TransactionExpense, day(2024, time.April, 1)),
		tx("3", models.TransactionExpense, day(2024, time.June, 30)),
		tx("4", models.TransactionExpense, day(2024, time.July, 1)),
		tx("5", models.TransactionExpense, day(2025, time.January, 10)),
	}

	got := InWindow(txs, models.PeriodMonth, 3, now)
	if len(got) != 2 || got[0].Amount != "2" || got[1].Amount != "3" {
		t.Errorf("InWindow(month) = %+v", got)
	}

	var bucketed float64
	for _, b := range Bucket(txs, models.PeriodMonth, 3, now) {
		bucketed += b.Expense + b.Income
	}
	if bucketed != 5 {
		t.Errorf("bucket total = %v, want the in-window total 5", bucketed)
	}

	week := InWindow(txs, models.PeriodWeek, 1, now)
	if len(week) != 0 {
		t.Errorf("InWindow(week) = %+v, want none", week)
	}
	if got := InWindow(txs, models.PeriodMonth, 0, now); got != nil {
		t.Errorf("InWindow(count 0) = %+v", got)
	}
}
