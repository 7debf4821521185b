package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Asset identifies a fungible ERC-20 token on a specific chain
type Asset struct {
	ChainID  int64
	Address  common.Address
	Decimals uint8
	Symbol   string
	Name     string
}

func (a Asset) String() string {
	return fmt.Sprintf("%s (%s)", a.Symbol, a.Address.Hex())
}

// Quantity is an amount in display units paired with the asset whose precision it uses.
// Base units are never stored here; convert with the amount package.
type Quantity struct {
	Asset  Asset
	Amount decimal.Decimal
}

// NewQuantity builds a Quantity from a display-unit decimal
func NewQuantity(asset Asset, amount decimal.Decimal) Quantity {
	return Quantity{Asset: asset, Amount: amount}
}

// Sub returns q - other. Both quantities must refer to the same asset.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.Asset.Address != other.Asset.Address {
		return Quantity{}, fmt.Errorf("cannot subtract %s from %s", other.Asset.Symbol, q.Asset.Symbol)
	}
	return Quantity{Asset: q.Asset, Amount: q.Amount.Sub(other.Amount)}, nil
}

// IsNegative reports whether the amount is below zero
func (q Quantity) IsNegative() bool {
	return q.Amount.IsNegative()
}

func (q Quantity) String() string {
	return q.Amount.String() + " " + q.Asset.Symbol
}
