package cashflow

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dan9191/finpyme/internal/models"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{100, 0, 0},
		{-50, -100, 50},
	}
	for _, tt := range tests {
		if got := Compare(tt.current, tt.previous); got != tt.want {
			t.Errorf("Compare(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestBreakdown(t *testing.T) {
	cats := []models.Category{{ID: 1, Name: "Sueldos"}, {ID: 2, Name: "Alquiler"}}
	txs := []models.Transaction{
		{Amount: "600", Type: models.TransactionExpense, CategoryID: 1},
		{Amount: "300", Type: models.TransactionExpense, CategoryID: 2},
		{Amount: "100", Type: models.TransactionExpense, CategoryID: 9},
		{Amount: "5000", Type: models.TransactionIncome, CategoryID: 1},
	}

	got := Breakdown(txs, cats, models.TransactionExpense)
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	if got[0].Name != "Sueldos" || got[0].Percentage != 60 {
		t.Errorf("first row = %+v, want Sueldos 60%%", got[0])
	}
	if got[2].Name != UncategorizedName || got[2].Percentage != 10 {
		t.Errorf("last row = %+v, want uncategorized 10%%", got[2])
	}
}

func TestAnalyze(t *testing.T) {
	v := Analyze(history([2]float64{200, 100}, [2]float64{400, 100}))
	if v.Mean != 200 || v.StdDev != 100 || v.Coefficient != 0.5 {
		t.Errorf("Analyze() = %+v", v)
	}
	if got := Analyze(nil); got != (models.Volatility{}) {
		t.Errorf("Analyze(nil) = %+v", got)
	}
}

func TestSeasonality(t *testing.T) {
	h := history([2]float64{100, 50}, [2]float64{300, 150})
	got := Seasonality(h)
	if len(got) != 2 || got[0].Month != time.January {
		t.Fatalf("Seasonality() = %+v", got)
	}
	if math.Abs(got[0].Income-0.5) > 1e-9 || math.Abs(got[1].Expense-1.5) > 1e-9 {
		t.Errorf("factors = %+v", got)
	}
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets("")
	if err != nil {
		t.Fatalf("LoadPresets() error = %v", err)
	}
	base, ok := FindPreset(presets, "base")
	if !ok {
		t.Fatal("base preset missing")
	}
	if base != (models.Scenario{Name: "base", TimeFrame: 6}) {
		t.Errorf("base preset = %+v, want identity over 6 months", base)
	}
	if _, ok := FindPreset(presets, "pessimistic"); !ok {
		t.Error("pessimistic preset missing")
	}

	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("- name: custom\n  income_growth: 3\n  time_frame: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	custom, err := LoadPresets(path)
	if err != nil || len(custom) != 1 || custom[0].IncomeGrowth != 3 {
		t.Errorf("LoadPresets(file) = %+v, %v", custom, err)
	}

	if err := os.WriteFile(path, []byte("- name: broken\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Error("expected error for preset without time_frame")
	}
}
