package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AuthorizationGrant is an on-chain permission for Spender to move Amount of Asset owned by Owner
type AuthorizationGrant struct {
	Asset   Asset
	Owner   common.Address
	Spender common.Address
	Amount  *big.Int // base units
}

// PoolInfo describes a resolved liquidity pool
type PoolInfo struct {
	Address common.Address
	Token0  common.Address
	Token1  common.Address
	Fee     uint32
}

// Contains reports whether the pool trades the given token
func (p PoolInfo) Contains(token common.Address) bool {
	return p.Token0 == token || p.Token1 == token
}

// SwapRequest holds the parameters of a single-hop exact-input swap
type SwapRequest struct {
	TokenIn           Asset
	TokenOut          Asset
	Fee               uint32
	Recipient         common.Address
	AmountIn          *big.Int // base units
	AmountOutMinimum  *big.Int // base units, zero disables slippage protection
	SqrtPriceLimitX96 *big.Int
}

// SwapResult is the output realized by a confirmed swap, measured by balance differencing
type SwapResult struct {
	Amount  Quantity
	Receipt TransactionReceipt
}

// DepositRequest holds the parameters of a lending pool supply
type DepositRequest struct {
	Asset        Asset
	Amount       *big.Int // base units
	Beneficiary  common.Address
	ReferralCode uint16
}

// TransactionReceipt summarizes a mined transaction
type TransactionReceipt struct {
	Hash        common.Hash
	Status      uint64
	BlockNumber uint64
	GasUsed     uint64
}

// Succeeded reports whether the transaction executed without reverting
func (r TransactionReceipt) Succeeded() bool {
	return r.Status == 1
}
