package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "swap-supply",
	Short: "Swap a token on Uniswap v3 and supply the proceeds to Aave v3",
	Long: `swap-supply is a command-line tool that swaps an ERC-20 token through a
Uniswap v3 pool and deposits everything it received into an Aave v3 lending pool.
Every step is confirmed on-chain before the next one starts; the first failure
stops the run.

Examples:
  swap-supply run 1.5
  swap-supply run 1.5 DAI --verbose
  swap-supply pool
  swap-supply balance
  swap-supply history`,
	Version:       "0.1.0",
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
