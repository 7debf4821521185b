package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-supply/pkg/balance"
	"swap-supply/pkg/types"
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the configured tokens",
	Long: `List the input and output tokens and check their configured decimals
against the token contracts.

Examples:
  swap-supply list-tokens`,
	Args: cobra.NoArgs,
	Run:  runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

// tokenCheck pairs a configured asset with its on-chain decimals
type tokenCheck struct {
	Asset    types.Asset
	Role     string
	OnChain  uint8
	Mismatch bool
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	a, err := connect(ctx, false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Reading token contracts..."
		s.Start()
	}

	oracle := balance.NewOracle(a.client)
	checks := []tokenCheck{
		{Asset: a.cfg.Input, Role: "input"},
		{Asset: a.cfg.Output, Role: "output"},
	}
	for i := range checks {
		decimals, err := oracle.Decimals(ctx, checks[i].Asset.Address)
		if err != nil {
			if !jsonOutput {
				s.Stop()
			}
			printError(err)
			a.Close()
			os.Exit(1)
		}
		checks[i].OnChain = decimals
		checks[i].Mismatch = decimals != checks[i].Asset.Decimals
	}

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := make([]map[string]interface{}, 0, len(checks))
		for _, c := range checks {
			output = append(output, map[string]interface{}{
				"role":              c.Role,
				"symbol":            c.Asset.Symbol,
				"name":              c.Asset.Name,
				"address":           c.Asset.Address.Hex(),
				"decimals":          c.Asset.Decimals,
				"on_chain_decimals": c.OnChain,
			})
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayTokens(a.cfg.ChainID, checks)
}

func displayTokens(chainID int64, checks []tokenCheck) {
	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            CONFIGURED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	color.Cyan("\nCHAIN %d", chainID)
	fmt.Println(strings.Repeat("-", 90))

	for _, c := range checks {
		fmt.Printf("  %-7s %-10s  %2d decimals  %s  %s\n",
			c.Role,
			color.YellowString(c.Asset.Symbol),
			c.Asset.Decimals,
			color.HiBlackString(c.Asset.Address.Hex()),
			c.Asset.Name)
		if c.Mismatch {
			color.Red("          contract reports %d decimals; amounts would be scaled wrongly", c.OnChain)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90) + "\n")
}
