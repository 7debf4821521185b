package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"swap-supply/pkg/pipeline"
	"swap-supply/pkg/types"
)

// progress prints human-readable run progress
type progress struct {
	out     io.Writer
	txURL   func(types.TransactionReceipt) string
	spinner *spinner.Spinner
	input   types.Asset
	output  types.Asset
}

func newProgress(out io.Writer, input, output types.Asset, txURL func(types.TransactionReceipt) string, animate bool) *progress {
	p := &progress{
		out:    out,
		txURL:  txURL,
		input:  input,
		output: output,
	}
	if animate {
		p.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return p
}

func (p *progress) Transition(e pipeline.Event) {
	p.stopSpinner()

	if line := p.doneLine(e); line != "" {
		fmt.Fprintf(p.out, "%s %s\n", color.GreenString("✓"), line)
		if e.Receipt != nil {
			fmt.Fprintf(p.out, "    %s\n", color.HiBlackString(p.txURL(*e.Receipt)))
		}
	}

	switch e.To {
	case pipeline.Complete:
		color.New(color.FgGreen).Fprintf(p.out, "\nSupplied %s to the lending pool.\n", e.Quantity)
		return
	case pipeline.Failed:
		color.New(color.FgRed).Fprintf(p.out, "✗ Failed while %s: %v\n", e.From, e.Err)
		return
	}

	p.startSpinner(p.pendingLine(e))
}

// pendingLine describes the step being entered
func (p *progress) pendingLine(e pipeline.Event) string {
	switch e.To {
	case pipeline.AuthorizingInput:
		return fmt.Sprintf("Approving %s for the swap router...", e.Quantity)
	case pipeline.Swapping:
		return fmt.Sprintf("Swapping %s for %s...", e.Quantity, p.output.Symbol)
	case pipeline.AuthorizingOutput:
		return fmt.Sprintf("Approving %s for the lending pool...", e.Quantity)
	case pipeline.Depositing:
		return fmt.Sprintf("Supplying %s...", e.Quantity)
	}
	return ""
}

// doneLine describes the step being left successfully
func (p *progress) doneLine(e pipeline.Event) string {
	if e.To == pipeline.Failed {
		return ""
	}
	switch e.From {
	case pipeline.AuthorizingInput:
		return fmt.Sprintf("%s approved", p.input.Symbol)
	case pipeline.Swapping:
		return fmt.Sprintf("Swap confirmed, received %s", color.YellowString(e.Quantity.String()))
	case pipeline.AuthorizingOutput:
		return fmt.Sprintf("%s approved", p.output.Symbol)
	case pipeline.Depositing:
		return "Supply confirmed"
	}
	return ""
}

func (p *progress) startSpinner(line string) {
	if p.spinner == nil {
		fmt.Fprintf(p.out, "  %s\n", line)
		return
	}
	p.spinner.Suffix = " " + line
	p.spinner.Start()
}

func (p *progress) stopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}
