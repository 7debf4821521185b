package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"swap-supply/pkg/journal"
	"swap-supply/pkg/metrics"
	"swap-supply/pkg/parser"
	"swap-supply/pkg/pipeline"
	"swap-supply/pkg/types"
)

var noConfirm bool

var runCmd = &cobra.Command{
	Use:   "run <amount> [token]",
	Short: "Swap the input token and supply the output to the lending pool",
	Long: `Swap <amount> of the configured input token through the Uniswap v3 pool and
supply everything received to the Aave v3 lending pool.

The steps are: approve input for the router, swap, approve output for the
lending pool, supply. Each transaction is confirmed before the next is sent.
A failure stops the run; confirmed steps are not unwound.

Configuration comes from .swap-supply.yaml, SWAP_SUPPLY_* variables and the
RPC_URL / PRIVATE_KEY variables (a .env file is loaded first).

Arguments starting with "-" are read as flags; put "--" before them.

Examples:
  swap-supply run 1
  swap-supply run 0.25 DAI --yes`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	runCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if arg, ok := parser.NegativeAmount(os.Args[1:]); ok {
			return fmt.Errorf("%w: %s is negative", types.ErrInvalidAmount, arg)
		}
		return err
	})
}

func runPipeline(cmd *cobra.Command, args []string) {
	if err := executeRun(cmd, args); err != nil {
		os.Exit(1)
	}
}

func executeRun(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	arg, err := parser.ParseAmountArg(args)
	if err != nil {
		printError(err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := connect(ctx, true)
	if err != nil {
		printError(err)
		return err
	}
	defer a.Close()

	if err := arg.CheckAsset(a.cfg.Input); err != nil {
		printError(err)
		return err
	}

	if !jsonOutput {
		displayPlan(a, arg.Amount)
		if !noConfirm && !confirmRun() {
			fmt.Println("\nRun cancelled.")
			return nil
		}
	}

	var reporters []pipeline.Reporter
	if !jsonOutput {
		reporters = append(reporters, newProgress(os.Stdout, a.cfg.Input, a.cfg.Output, func(r types.TransactionReceipt) string {
			return a.cfg.TxURL(r.Hash)
		}, true))
	}

	if storage, err := journal.NewStorage(a.cfg.JournalPath); err != nil {
		logger.WithError(err).Warn("run history disabled")
	} else {
		reporters = append(reporters, journal.NewRecorder(storage, logger))
	}

	var metricsReporter *metrics.Reporter
	if a.cfg.PushURL != "" {
		metricsReporter, err = metrics.NewReporter(prometheus.NewRegistry())
		if err != nil {
			logger.WithError(err).Warn("metrics disabled")
		} else {
			reporters = append(reporters, metricsReporter)
		}
	}

	result, runErr := a.orchestrator(reporters...).Run(ctx, arg.Amount)

	if metricsReporter != nil {
		if err := metricsReporter.Push(a.cfg.PushURL, a.cfg.PushJob); err != nil {
			logger.WithError(err).Warn("metrics not pushed")
		}
	}

	if jsonOutput {
		printRunJSON(result, runErr)
	} else if runErr != nil {
		displayFailure(runErr)
	}

	return runErr
}

func displayPlan(a *app, amount string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                   SWAP AND SUPPLY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Account:        %s\n", color.CyanString(a.wallet.From().Hex()))
	fmt.Printf("  Swap:           %s %s -> %s\n", amount, color.YellowString(a.cfg.Input.Symbol), color.YellowString(a.cfg.Output.Symbol))
	fmt.Printf("  Fee Tier:       %d\n", a.cfg.FeeTier)
	fmt.Printf("  Min Output:     %s %s\n", a.cfg.MinAmountOut, a.cfg.Output.Symbol)
	fmt.Printf("  Router:         %s\n", color.HiBlackString(a.cfg.Router.Hex()))
	fmt.Printf("  Lending Pool:   %s\n", color.HiBlackString(a.cfg.LendingPool.Hex()))

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayFailure(err error) {
	var runErr *pipeline.RunError
	if errors.As(err, &runErr) {
		fmt.Printf("\nRun %s stopped while %s.\n", runErr.RunID, runErr.State)
		if runErr.State > pipeline.Swapping {
			color.Yellow("The swap was confirmed; its output stays in the wallet.")
		}
	}
	printError(err)
}

type runOutput struct {
	RunID  string            `json:"run_id"`
	State  string            `json:"state"`
	Input  string            `json:"input,omitempty"`
	Output string            `json:"output,omitempty"`
	Pool   string            `json:"pool,omitempty"`
	Txs    map[string]string `json:"txs,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func printRunJSON(result *pipeline.Result, err error) {
	output := runOutput{
		RunID: result.RunID,
		State: result.State.String(),
		Txs:   make(map[string]string),
	}
	if result.Input.Asset.Symbol != "" {
		output.Input = result.Input.String()
	}
	if result.Swapped.Asset.Symbol != "" {
		output.Output = result.Swapped.String()
	}
	if result.Pool.Address != (common.Address{}) {
		output.Pool = result.Pool.Address.Hex()
	}
	for name, receipt := range map[string]*types.TransactionReceipt{
		"input_approval":  result.InputApproval,
		"swap":            result.Swap,
		"output_approval": result.OutputApproval,
		"deposit":         result.Deposit,
	} {
		if receipt != nil {
			output.Txs[name] = receipt.Hash.Hex()
		}
	}
	if err != nil {
		output.Error = err.Error()
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}

func confirmRun() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Proceed with swap and supply? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
