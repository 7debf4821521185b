package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"swap-supply/pkg/types"
)

// plainDecimal matches unsigned or negative amounts in positional notation only
var plainDecimal = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// maxDigits is the number of decimal digits in the largest uint256
const maxDigits = 78

// ToBaseUnits converts a human-readable amount to base units
// e.g., "10" USDC (6 decimals) -> 10000000
func ToBaseUnits(display string, asset types.Asset) (*big.Int, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return nil, fmt.Errorf("%w: amount cannot be empty", types.ErrInvalidAmount)
	}

	if !plainDecimal.MatchString(display) {
		return nil, fmt.Errorf("%w: %q is not a decimal number", types.ErrInvalidAmount, display)
	}

	d, err := decimal.NewFromString(display)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a decimal number", types.ErrInvalidAmount, display)
	}

	return DecimalToBaseUnits(d, asset)
}

// DecimalToBaseUnits scales a display-unit decimal by the asset's precision.
// Amounts with more fractional digits than the asset supports are rejected rather than truncated.
func DecimalToBaseUnits(d decimal.Decimal, asset types.Asset) (*big.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s is negative", types.ErrInvalidAmount, d.String())
	}

	if d.IsZero() {
		return new(big.Int), nil
	}
	if d.Exponent() < -maxDigits-int32(asset.Decimals) {
		return nil, fmt.Errorf("%w: amount has more than %d decimal places for %s",
			types.ErrInvalidAmount, asset.Decimals, asset.Symbol)
	}
	if int64(d.Exponent())+int64(asset.Decimals) > maxDigits {
		return nil, fmt.Errorf("%w: amount exceeds uint256 for %s", types.ErrInvalidAmount, asset.Symbol)
	}

	scaled := d.Shift(int32(asset.Decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places for %s",
			types.ErrInvalidAmount, d.String(), asset.Decimals, asset.Symbol)
	}

	base := scaled.BigInt()
	if base.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %s exceeds uint256 for %s", types.ErrInvalidAmount, d.String(), asset.Symbol)
	}

	return base, nil
}

// QuantityToBaseUnits converts a Quantity to base units of its own asset
func QuantityToBaseUnits(q types.Quantity) (*big.Int, error) {
	return DecimalToBaseUnits(q.Amount, q.Asset)
}

// ToDisplayUnits converts base units to a human-readable amount
// e.g., 10000000 with 6 decimals -> 10
func ToDisplayUnits(base *big.Int, asset types.Asset) (decimal.Decimal, error) {
	if base == nil {
		return decimal.Zero, fmt.Errorf("%w: nil base amount", types.ErrInvalidAmount)
	}
	if base.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", types.ErrInvalidAmount, base.String())
	}

	return decimal.NewFromBigInt(base, -int32(asset.Decimals)), nil
}

// ToQuantity converts base units to a Quantity of the given asset
func ToQuantity(base *big.Int, asset types.Asset) (types.Quantity, error) {
	d, err := ToDisplayUnits(base, asset)
	if err != nil {
		return types.Quantity{}, err
	}
	return types.NewQuantity(asset, d), nil
}
