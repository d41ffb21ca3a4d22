package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Dan9191/finpyme/internal/cashflow"
	"github.com/Dan9191/finpyme/internal/currency"
	"github.com/Dan9191/finpyme/internal/integrations/rates"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/spf13/cobra"
)

var projectFlags struct {
	file       string
	period     string
	count      int
	preset     string
	currency   string
	dollarType string
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project cash flow from a transactions file",
	Long: `Bucket the transactions in a JSON file, apply a scenario preset and
print the projected buckets with their metrics. Amounts are converted
with the fallback quotes.

Example:
  finpyme project --file movimientos.json --period month --count 6 --preset base`,
	Run: runProject,
}

func init() {
	f := projectCmd.Flags()
	f.StringVar(&projectFlags.file, "file", "", "JSON array of transactions (required)")
	f.StringVar(&projectFlags.period, "period", string(models.PeriodMonth), "bucket width: day, week, month, quarter or year")
	f.IntVar(&projectFlags.count, "count", 6, "number of historical buckets")
	f.StringVar(&projectFlags.preset, "preset", "base", "scenario preset name")
	f.StringVar(&projectFlags.currency, "currency", "ARS", "display currency: ARS or USD")
	f.StringVar(&projectFlags.dollarType, "dollar-type", string(models.DollarOficial), "quote used for USD: oficial, blue or mep")
	projectCmd.MarkFlagRequired("file")
}

func runProject(cmd *cobra.Command, args []string) {
	period := models.Period(projectFlags.period)
	if !period.Valid() {
		exitOnError(fmt.Errorf("unknown period %q", projectFlags.period), "invalid flags")
	}
	if projectFlags.count < 1 {
		exitOnError(fmt.Errorf("count must be positive"), "invalid flags")
	}

	txs, err := loadTransactions(projectFlags.file)
	exitOnError(err, "failed to read transactions")

	presets, err := cashflow.LoadPresets("")
	exitOnError(err, "failed to load presets")
	sc, ok := cashflow.FindPreset(presets, projectFlags.preset)
	if !ok {
		exitOnError(fmt.Errorf("unknown preset %q", projectFlags.preset), "invalid flags")
	}

	history := cashflow.Bucket(txs, period, projectFlags.count, time.Now())
	logger.Debugf("Bucketed %d transactions into %d periods", len(txs), len(history))

	conv := currency.NewConverter(
		currency.ParseSettings(projectFlags.currency, projectFlags.dollarType),
		rates.DefaultSnapshot().RateSnapshot,
	)
	out := cmd.OutOrStdout()
	renderProjection(out, conv, cashflow.Project(history, period, sc))
	renderForecast(out, conv, cashflow.Forecast(history, period, sc.TimeFrame))
}

func loadTransactions(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var txs []models.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("invalid transactions file: %w", err)
	}
	return txs, nil
}

func renderProjection(w io.Writer, conv *currency.Converter, p cashflow.Projection) {
	if len(p.Periods) == 0 {
		fmt.Fprintln(w, "Sin historial para proyectar.")
		return
	}

	fmt.Fprintf(w, "Escenario: %s (%d períodos)\n\n", p.Scenario.Name, len(p.Periods))
	for _, b := range p.Periods {
		fmt.Fprintf(w, "%-18s ingresos %-18s gastos %-18s neto %s\n", b.Label,
			conv.FormatAmount(b.Income, true), conv.FormatAmount(b.Expense, true), conv.FormatAmount(b.NetFlow, true))
	}

	m := p.Metrics
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Flujo neto proyectado: %s\n", conv.FormatAmount(m.NetProjectedFlow, true))
	fmt.Fprintf(w, "Peor caso:             %s\n", conv.FormatAmount(m.WorstCase, true))
	fmt.Fprintf(w, "Mejor caso:            %s\n", conv.FormatAmount(m.BestCase, true))
	if m.BreakEvenPoint > 0 {
		fmt.Fprintf(w, "Punto de equilibrio:   período %d\n", m.BreakEvenPoint)
	} else {
		fmt.Fprintln(w, "Punto de equilibrio:   no se alcanza")
	}
	fmt.Fprintf(w, "Riesgo:                %s\n", m.RiskLevel)
}

func renderForecast(w io.Writer, conv *currency.Converter, f models.Forecast) {
	if len(f.Projected) == 0 {
		return
	}
	fmt.Fprintf(w, "\nTendencia lineal (pendiente %s por período)\n", conv.FormatAmount(f.Slope, true))
	for _, p := range f.Projected {
		fmt.Fprintf(w, "%-18s neto %s\n", p.Label, conv.FormatAmount(p.Value, true))
	}
}
