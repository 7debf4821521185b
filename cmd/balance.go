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
	"golang.org/x/sync/errgroup"

	"swap-supply/pkg/balance"
	"swap-supply/pkg/types"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show token balances and allowances",
	Long: `Show the input and output token balances of the signer (or --address),
together with the allowances granted to the swap router and the lending pool.

Examples:
  swap-supply balance
  swap-supply balance --address 0x1234...abcd`,
	Args: cobra.NoArgs,
	Run:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Address to inspect (defaults to the signer)")
}

// holding is what one address holds of one asset
type holding struct {
	Asset     types.Asset
	Balance   types.Quantity
	Spender   string
	Allowance types.Quantity
}

func runBalance(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	a, err := connect(ctx, false)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	holder, err := a.account(balanceAddress)
	if err != nil {
		printError(err)
		a.Close()
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Reading balances..."
		s.Start()
	}

	holdings, err := readHoldings(ctx, a, holder)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		a.Close()
		os.Exit(1)
	}

	if jsonOutput {
		output := make([]map[string]string, 0, len(holdings))
		for _, h := range holdings {
			output = append(output, map[string]string{
				"token":     h.Asset.Symbol,
				"address":   h.Asset.Address.Hex(),
				"balance":   h.Balance.Amount.String(),
				"spender":   h.Spender,
				"allowance": h.Allowance.Amount.String(),
			})
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayHoldings(holder, holdings)
}

// readHoldings reads balances and allowances of both assets concurrently
func readHoldings(ctx context.Context, a *app, holder common.Address) ([]holding, error) {
	oracle := balance.NewOracle(a.client)

	holdings := []holding{
		{Asset: a.cfg.Input, Spender: a.cfg.Router.Hex()},
		{Asset: a.cfg.Output, Spender: a.cfg.LendingPool.Hex()},
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range holdings {
		h := &holdings[i]

		g.Go(func() error {
			q, err := oracle.BalanceOf(gctx, h.Asset, holder)
			if err != nil {
				return err
			}
			h.Balance = q
			return nil
		})

		g.Go(func() error {
			q, err := oracle.Allowance(gctx, h.Asset, holder, common.HexToAddress(h.Spender))
			if err != nil {
				return err
			}
			h.Allowance = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return holdings, nil
}

func displayHoldings(holder common.Address, holdings []holding) {
	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                                  BALANCES")
	fmt.Println(strings.Repeat("=", 90))

	fmt.Printf("\n  Account: %s\n\n", color.CyanString(holder.Hex()))

	for _, h := range holdings {
		fmt.Printf("  %-10s  %s\n", color.YellowString(h.Asset.Symbol), h.Balance.Amount.String())
		fmt.Printf("  %-10s  allowance %s for %s\n", "", h.Allowance.Amount.String(), color.HiBlackString(h.Spender))
	}

	fmt.Println("\n" + strings.Repeat("=", 90) + "\n")
}
