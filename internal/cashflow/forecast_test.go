package cashflow

import (
	"testing"

	"github.com/Dan9191/finpyme/internal/models"
)

func TestRegression(t *testing.T) {
	slope, intercept := Regression(history([2]float64{100, 0}, [2]float64{200, 0}, [2]float64{300, 0}))
	if slope != 100 || intercept != 100 {
		t.Errorf("Regression() = %v, %v; want 100, 100", slope, intercept)
	}

	slope, intercept = Regression(history([2]float64{500, 200}))
	if slope != 0 || intercept != 300 {
		t.Errorf("single point Regression() = %v, %v; want 0, 300", slope, intercept)
	}
}

func TestForecastDisjoint(t *testing.T) {
	h := history([2]float64{100, 0}, [2]float64{200, 0}, [2]float64{300, 0})
	f := Forecast(h, models.PeriodMonth, 2)

	if len(f.Historical) != 3 || len(f.Projected) != 2 {
		t.Fatalf("got %d historical and %d projected points", len(f.Historical), len(f.Projected))
	}
	seen := map[int]bool{}
	for _, p := range f.Historical {
		seen[p.Index] = true
	}
	for _, p := range f.Projected {
		if seen[p.Index] {
			t.Errorf("index %d appears in both series", p.Index)
		}
	}
	if f.Projected[0].Value != 400 || f.Projected[1].Value != 500 {
		t.Errorf("projected values = %v, %v; want 400, 500", f.Projected[0].Value, f.Projected[1].Value)
	}
	if f.Projected[0].Label != "Apr 2024" {
		t.Errorf("first projected label = %q, want Apr 2024", f.Projected[0].Label)
	}
}

func TestForecastEmpty(t *testing.T) {
	f := Forecast(nil, models.PeriodMonth, 3)
	if len(f.Historical) != 0 || len(f.Projected) != 0 {
		t.Errorf("Forecast(nil) = %+v", f)
	}
}
