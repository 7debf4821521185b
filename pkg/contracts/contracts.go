package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ExactInputSingleParams mirrors the router's ExactInputSingleParams tuple.
// Field names must match the ABI component names.
type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// PackApprove encodes approve(spender, amount)
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20Parsed.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve data: %w", err)
	}
	return data, nil
}

// PackAllowance encodes allowance(owner, spender)
func PackAllowance(owner, spender common.Address) ([]byte, error) {
	data, err := erc20Parsed.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to pack allowance data: %w", err)
	}
	return data, nil
}

// UnpackAllowance decodes the allowance return value
func UnpackAllowance(data []byte) (*big.Int, error) {
	return unpackBigInt(erc20Parsed, "allowance", data)
}

// PackBalanceOf encodes balanceOf(account)
func PackBalanceOf(account common.Address) ([]byte, error) {
	data, err := erc20Parsed.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}
	return data, nil
}

// UnpackBalanceOf decodes the balanceOf return value
func UnpackBalanceOf(data []byte) (*big.Int, error) {
	return unpackBigInt(erc20Parsed, "balanceOf", data)
}

// PackDecimals encodes decimals()
func PackDecimals() ([]byte, error) {
	return erc20Parsed.Pack("decimals")
}

// UnpackDecimals decodes the decimals return value
func UnpackDecimals(data []byte) (uint8, error) {
	out, err := erc20Parsed.Unpack("decimals", data)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals: %w", err)
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", out[0])
	}
	return decimals, nil
}

// PackGetPool encodes getPool(tokenA, tokenB, fee)
func PackGetPool(tokenA, tokenB common.Address, fee uint32) ([]byte, error) {
	data, err := factoryParsed.Pack("getPool", tokenA, tokenB, new(big.Int).SetUint64(uint64(fee)))
	if err != nil {
		return nil, fmt.Errorf("failed to pack getPool data: %w", err)
	}
	return data, nil
}

// UnpackGetPool decodes the pool address returned by getPool
func UnpackGetPool(data []byte) (common.Address, error) {
	return unpackAddress(factoryParsed, "getPool", data)
}

// PackToken0 encodes token0()
func PackToken0() ([]byte, error) {
	return poolParsed.Pack("token0")
}

// UnpackToken0 decodes the token0 return value
func UnpackToken0(data []byte) (common.Address, error) {
	return unpackAddress(poolParsed, "token0", data)
}

// PackToken1 encodes token1()
func PackToken1() ([]byte, error) {
	return poolParsed.Pack("token1")
}

// UnpackToken1 decodes the token1 return value
func UnpackToken1(data []byte) (common.Address, error) {
	return unpackAddress(poolParsed, "token1", data)
}

// PackFee encodes fee()
func PackFee() ([]byte, error) {
	return poolParsed.Pack("fee")
}

// UnpackFee decodes the uint24 fee tier
func UnpackFee(data []byte) (uint32, error) {
	fee, err := unpackBigInt(poolParsed, "fee", data)
	if err != nil {
		return 0, err
	}
	return uint32(fee.Uint64()), nil
}

// PackExactInputSingle encodes exactInputSingle(params)
func PackExactInputSingle(params ExactInputSingleParams) ([]byte, error) {
	data, err := routerParsed.Pack("exactInputSingle", params)
	if err != nil {
		return nil, fmt.Errorf("failed to pack exactInputSingle data: %w", err)
	}
	return data, nil
}

// PackSupply encodes supply(asset, amount, onBehalfOf, referralCode)
func PackSupply(asset common.Address, amount *big.Int, onBehalfOf common.Address, referralCode uint16) ([]byte, error) {
	data, err := lendingPoolParsed.Pack("supply", asset, amount, onBehalfOf, referralCode)
	if err != nil {
		return nil, fmt.Errorf("failed to pack supply data: %w", err)
	}
	return data, nil
}

func unpackBigInt(parsed abi.ABI, method string, data []byte) (*big.Int, error) {
	out, err := parsed.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s type %T", method, out[0])
	}
	return value, nil
}

func unpackAddress(parsed abi.ABI, method string, data []byte) (common.Address, error) {
	out, err := parsed.Unpack(method, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s type %T", method, out[0])
	}
	return addr, nil
}
