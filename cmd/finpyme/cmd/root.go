// Package cmd provides the finpyme CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debug  bool
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "finpyme",
	Short: "Cash flow tooling for small businesses",
	Long: `finpyme runs the FinPyME Pro calculations from the command line.

Example:
  finpyme rates
  finpyme scenarios
  finpyme project --file movimientos.json --preset optimistic --currency USD`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.InfoLevel)
		if debug {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(projectCmd)
}

func exitOnError(err error, msg string) {
	if err != nil {
		logger.WithError(err).Error(msg)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
