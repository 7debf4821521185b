package parser

import (
	"fmt"
	"regexp"
	"strings"

	"swap-supply/pkg/types"
)

// amountPattern matches "<amount>" or "<amount> <symbol>". The amount itself is validated by the codec.
var amountPattern = regexp.MustCompile(`^(\S+)(?:\s+([A-Za-z0-9]+))?$`)

// negativeAmount matches a negative number that the flag parser would read as a shorthand flag
var negativeAmount = regexp.MustCompile(`^-(\d+\.?\d*|\.\d+)$`)

// AmountArg is the parsed argument of the run command
type AmountArg struct {
	Amount string
	Symbol string
}

// ParseAmountArg parses the run command argument.
// Examples:
//   - "1"
//   - "0.5 DAI"
//   - "100 dai"
func ParseAmountArg(args []string) (*AmountArg, error) {
	command := strings.TrimSpace(strings.Join(args, " "))

	matches := amountPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid amount. Expected: '<amount> [token]' (e.g., '1.5' or '1.5 DAI')")
	}

	return &AmountArg{
		Amount: matches[1],
		Symbol: strings.ToUpper(matches[2]),
	}, nil
}

// CheckAsset rejects an argument naming a token other than the configured input asset
func (a *AmountArg) CheckAsset(asset types.Asset) error {
	if a.Symbol == "" {
		return nil
	}
	if a.Symbol != strings.ToUpper(asset.Symbol) {
		return fmt.Errorf("this pipeline swaps %s, not %s", asset.Symbol, a.Symbol)
	}
	return nil
}

// NegativeAmount finds a negative number among raw command-line args before any "--"
func NegativeAmount(args []string) (string, bool) {
	for _, arg := range args {
		if arg == "--" {
			return "", false
		}
		if negativeAmount.MatchString(arg) {
			return arg, true
		}
	}
	return "", false
}
