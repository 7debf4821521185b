package balance

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"swap-supply/pkg/amount"
	"swap-supply/pkg/chain"
	"swap-supply/pkg/contracts"
	"swap-supply/pkg/types"
)

// Oracle reads ERC-20 balances and allowances against the latest chain state
type Oracle struct {
	caller chain.Caller
}

func NewOracle(caller chain.Caller) *Oracle {
	return &Oracle{caller: caller}
}

// BalanceOf returns the holder's balance of asset in display units
func (o *Oracle) BalanceOf(ctx context.Context, asset types.Asset, holder common.Address) (types.Quantity, error) {
	data, err := contracts.PackBalanceOf(holder)
	if err != nil {
		return types.Quantity{}, err
	}

	result, err := o.caller.Call(ctx, asset.Address, data)
	if err != nil {
		return types.Quantity{}, fmt.Errorf("failed to get %s balance: %w", asset.Symbol, err)
	}

	balance, err := contracts.UnpackBalanceOf(result)
	if err != nil {
		return types.Quantity{}, fmt.Errorf("failed to get %s balance: %w", asset.Symbol, err)
	}

	return amount.ToQuantity(balance, asset)
}

// Allowance returns how much of owner's asset spender may transfer, in display units
func (o *Oracle) Allowance(ctx context.Context, asset types.Asset, owner, spender common.Address) (types.Quantity, error) {
	data, err := contracts.PackAllowance(owner, spender)
	if err != nil {
		return types.Quantity{}, err
	}

	result, err := o.caller.Call(ctx, asset.Address, data)
	if err != nil {
		return types.Quantity{}, fmt.Errorf("failed to check %s allowance: %w", asset.Symbol, err)
	}

	allowance, err := contracts.UnpackAllowance(result)
	if err != nil {
		return types.Quantity{}, fmt.Errorf("failed to check %s allowance: %w", asset.Symbol, err)
	}

	return amount.ToQuantity(allowance, asset)
}

// Decimals reads the token's on-chain precision
func (o *Oracle) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := contracts.PackDecimals()
	if err != nil {
		return 0, err
	}

	result, err := o.caller.Call(ctx, token, data)
	if err != nil {
		return 0, fmt.Errorf("failed to get decimals of %s: %w", token.Hex(), err)
	}

	return contracts.UnpackDecimals(result)
}
