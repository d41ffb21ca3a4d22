package cmd

import (
	"fmt"
	"io"

	"github.com/Dan9191/finpyme/internal/cashflow"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/spf13/cobra"
)

var presetsPath string

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the projection presets",
	Run: func(cmd *cobra.Command, args []string) {
		presets, err := cashflow.LoadPresets(presetsPath)
		exitOnError(err, "failed to load presets")
		printScenarios(cmd.OutOrStdout(), presets)
	},
}

func init() {
	scenariosCmd.Flags().StringVar(&presetsPath, "presets", "", "YAML presets file (default built-in)")
}

func printScenarios(w io.Writer, presets []models.Scenario) {
	fmt.Fprintln(w, "Nombre       Ingresos  Gastos  Mercado  Inflación  Meses")
	for _, p := range presets {
		fmt.Fprintf(w, "%-12s %+7.1f%% %+6.1f%% %+7.1f%% %8.1f%% %6d\n",
			p.Name, p.IncomeGrowth, -p.ExpenseReduction, p.MarketGrowth, p.InflationRate, p.TimeFrame)
	}
}
