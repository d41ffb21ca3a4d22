package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Dan9191/finpyme/internal/config"
	"github.com/Dan9191/finpyme/internal/currency"
	"github.com/Dan9191/finpyme/internal/integrations/rates"
	"github.com/spf13/cobra"
)

var ratesFlags struct {
	currency   string
	dollarType string
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch the current dollar quotes",
	Long: `Fetch the oficial, blue and MEP quotes once and print them.
Quotes that cannot be fetched show their fallback value.`,
	Run: runRates,
}

func init() {
	ratesCmd.Flags().StringVar(&ratesFlags.currency, "currency", "ARS", "currency used to show the selected quote: ARS or USD")
	ratesCmd.Flags().StringVar(&ratesFlags.dollarType, "dollar-type", "oficial", "selected quote: oficial, blue or mep")
}

func runRates(cmd *cobra.Command, args []string) {
	cfg, err := config.NewConfig()
	exitOnError(err, "failed to load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	snap := rates.NewClient(cfg, logger).Fetch(ctx)
	printRates(cmd.OutOrStdout(), snap)
	printSelected(cmd.OutOrStdout(), currency.NewConverter(currency.ParseSettings(ratesFlags.currency, ratesFlags.dollarType), snap.RateSnapshot))
}

func printRates(w io.Writer, snap rates.Snapshot) {
	fmt.Fprintln(w, "Tipo      Cotización  Fuente")
	for _, r := range snap.Results {
		line := fmt.Sprintf("%-9s %10.2f  %s", r.Type, r.Rate, r.Source)
		if r.Reason != "" {
			line += " (" + r.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// printSelected shows what one unit of the display currency is worth in the
// other one under the selected quote
func printSelected(w io.Writer, conv *currency.Converter) {
	s := conv.Settings()
	if s.Display == currency.USD {
		fmt.Fprintf(w, "\n$1.000 ARS = %s (%s)\n", conv.FormatAmount(1000, true), s.DollarType)
		return
	}
	ars := conv.Convert(1, currency.USD, currency.ARS)
	fmt.Fprintf(w, "\nUS$1 = %s (%s)\n", currency.FormatMoney(currency.ARS, ars), s.DollarType)
}
