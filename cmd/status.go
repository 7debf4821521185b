package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swap-supply/config"
	"swap-supply/pkg/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history [run-id]",
	Aliases: []string{"status"},
	Short:   "Show past runs",
	Long: `Show the outcome of previous runs recorded in the local run history,
or the details of a single run by its ID.

Examples:
  swap-supply history
  swap-supply history --limit 5
  swap-supply history 7b6c1f0e-...`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// only the journal path is needed; a missing RPC URL is not fatal here
	path := ""
	if cfg, err := config.Load(); err == nil {
		path = cfg.JournalPath
	}

	storage, err := journal.NewStorage(path)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var records []*journal.Record
	if len(args) == 1 {
		record, err := storage.Get(args[0])
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		records = []*journal.Record{record}
	} else {
		records = storage.List()
		if historyLimit > 0 && len(records) > historyLimit {
			records = records[:historyLimit]
		}
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(records) == 0 {
		printSuccess("No runs recorded yet.")
		return
	}

	for _, record := range records {
		displayRecord(record)
	}
	fmt.Printf("Showing %d of %d runs (%s)\n\n", len(records), storage.Count(), storage.GetFilePath())
}

func displayRecord(record *journal.Record) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("  Run:        %s\n", color.CyanString(record.RunID))
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("  Status:     %s\n", getColoredStatus(record.State))
	if record.FailedIn != "" {
		fmt.Printf("  Failed In:  %s\n", record.FailedIn)
	}
	fmt.Printf("  Finished:   %s\n", record.Finished.Format("2006-01-02 15:04:05"))
	if record.Input != "" {
		fmt.Printf("  Input:      %s\n", record.Input)
	}
	if record.Output != "" {
		fmt.Printf("  Output:     %s\n", record.Output)
	}

	steps := make([]string, 0, len(record.Txs))
	for step := range record.Txs {
		steps = append(steps, step)
	}
	sort.Strings(steps)
	for _, step := range steps {
		fmt.Printf("  Tx:         %-20s %s\n", step, color.HiBlackString(record.Txs[step]))
	}

	if record.Error != "" {
		fmt.Printf("  Error:      %s\n", color.RedString(record.Error))
	}
	fmt.Println()
}

func getColoredStatus(status string) string {
	status = strings.ToUpper(status)

	switch status {
	case "COMPLETE":
		return color.GreenString(status)
	case "FAILED":
		return color.RedString(status)
	default:
		return color.YellowString(status)
	}
}
