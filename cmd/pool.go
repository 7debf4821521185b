package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-supply/pkg/types"
)

var poolFee uint32

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Show the liquidity pool used for the swap",
	Long: `Resolve the Uniswap v3 pool for the configured input and output tokens
through the factory and print its token ordering and fee tier.

Examples:
  swap-supply pool
  swap-supply pool --fee 500`,
	Args: cobra.NoArgs,
	Run:  runPool,
}

func init() {
	rootCmd.AddCommand(poolCmd)

	poolCmd.Flags().Uint32Var(&poolFee, "fee", 0, "Fee tier to look up (defaults to the configured tier)")
}

func runPool(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	a, err := connect(ctx, false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	fee := a.cfg.FeeTier
	if poolFee != 0 {
		fee = poolFee
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Resolving pool..."
		s.Start()
	}

	info, err := a.resolver().Resolve(ctx, a.cfg.Input, a.cfg.Output, fee)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		a.Close()
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"address": info.Address.Hex(),
			"token0":  info.Token0.Hex(),
			"token1":  info.Token1.Hex(),
			"fee":     info.Fee,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayPool(info, a.cfg.Input, a.cfg.Output)
}

func displayPool(info types.PoolInfo, input, output types.Asset) {
	symbol := func(token common.Address) string {
		switch token {
		case input.Address:
			return input.Symbol
		case output.Address:
			return output.Symbol
		}
		return "?"
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                          POOL")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Address:   %s\n", color.CyanString(info.Address.Hex()))
	fmt.Printf("  Token0:    %-6s %s\n", color.YellowString(symbol(info.Token0)), color.HiBlackString(info.Token0.Hex()))
	fmt.Printf("  Token1:    %-6s %s\n", color.YellowString(symbol(info.Token1)), color.HiBlackString(info.Token1.Hex()))
	fmt.Printf("  Fee:       %d (%.2f%%)\n", info.Fee, float64(info.Fee)/10000)

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
