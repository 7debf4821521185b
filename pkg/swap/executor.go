package swap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"swap-supply/pkg/chain"
	"swap-supply/pkg/contracts"
	"swap-supply/pkg/types"
)

// BalanceReader reads an asset balance in display units
type BalanceReader interface {
	BalanceOf(ctx context.Context, asset types.Asset, holder common.Address) (types.Quantity, error)
}

// Executor submits single-hop exact-input swaps through the router
type Executor struct {
	signer   chain.Transactor
	balances BalanceReader
	router   common.Address
	log      logrus.FieldLogger
}

func NewExecutor(signer chain.Transactor, balances BalanceReader, router common.Address, log logrus.FieldLogger) *Executor {
	return &Executor{
		signer:   signer,
		balances: balances,
		router:   router,
		log:      log,
	}
}

// NewRequest builds a swap request using the fee tier reported by the pool.
// A nil minOut means no slippage floor.
func NewRequest(
	pool types.PoolInfo,
	tokenIn, tokenOut types.Asset,
	recipient common.Address,
	amountIn, minOut *big.Int,
) types.SwapRequest {
	if minOut == nil {
		minOut = big.NewInt(0)
	}
	return types.SwapRequest{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		Fee:               pool.Fee,
		Recipient:         recipient,
		AmountIn:          amountIn,
		AmountOutMinimum:  minOut,
		SqrtPriceLimitX96: big.NewInt(0),
	}
}

// Swap executes the request and measures the realized output as the difference of the
// recipient's output balance read before submission and after confirmation. Transfers
// into the recipient from elsewhere during that window are counted as swap output.
func (e *Executor) Swap(ctx context.Context, pool types.PoolInfo, req types.SwapRequest) (types.SwapResult, error) {
	if err := validate(pool, req); err != nil {
		return types.SwapResult{}, err
	}

	log := e.log.WithFields(logrus.Fields{
		"pool":      pool.Address.Hex(),
		"tokenIn":   req.TokenIn.Symbol,
		"tokenOut":  req.TokenOut.Symbol,
		"amountIn":  req.AmountIn.String(),
		"minOut":    req.AmountOutMinimum.String(),
		"recipient": req.Recipient.Hex(),
	})

	before, err := e.balances.BalanceOf(ctx, req.TokenOut, req.Recipient)
	if err != nil {
		return types.SwapResult{}, fmt.Errorf("failed to read balance before swap: %w", err)
	}

	data, err := contracts.PackExactInputSingle(contracts.ExactInputSingleParams{
		TokenIn:           req.TokenIn.Address,
		TokenOut:          req.TokenOut.Address,
		Fee:               new(big.Int).SetUint64(uint64(req.Fee)),
		Recipient:         req.Recipient,
		AmountIn:          req.AmountIn,
		AmountOutMinimum:  req.AmountOutMinimum,
		SqrtPriceLimitX96: req.SqrtPriceLimitX96,
	})
	if err != nil {
		return types.SwapResult{}, fmt.Errorf("%w: %w", types.ErrSubmissionFailed, err)
	}

	log.Debug("sending swap transaction")

	tx, err := e.signer.Transact(ctx, chain.TxRequest{
		To:   e.router,
		Data: data,
	})
	if err != nil {
		return types.SwapResult{}, fmt.Errorf("swap %s->%s: %w", req.TokenIn.Symbol, req.TokenOut.Symbol, err)
	}

	receipt, err := e.signer.WaitMined(ctx, tx)
	if err != nil {
		return types.SwapResult{}, fmt.Errorf("swap %s->%s: %w", req.TokenIn.Symbol, req.TokenOut.Symbol, err)
	}

	if !receipt.Succeeded() {
		return types.SwapResult{Receipt: receipt}, fmt.Errorf("%w: exactInputSingle reverted in tx %s",
			types.ErrSwapReverted, receipt.Hash.Hex())
	}

	after, err := e.balances.BalanceOf(ctx, req.TokenOut, req.Recipient)
	if err != nil {
		return types.SwapResult{Receipt: receipt}, fmt.Errorf("failed to read balance after swap: %w", err)
	}

	swapped, err := after.Sub(before)
	if err != nil {
		return types.SwapResult{Receipt: receipt}, err
	}
	if swapped.IsNegative() {
		return types.SwapResult{Receipt: receipt}, fmt.Errorf("%w: %s balance dropped from %s to %s across swap %s",
			types.ErrInvariantViolation, req.TokenOut.Symbol, before.Amount, after.Amount, receipt.Hash.Hex())
	}

	log.WithFields(logrus.Fields{
		"tx":      receipt.Hash.Hex(),
		"swapped": swapped.String(),
	}).Info("swap confirmed")

	return types.SwapResult{
		Amount:  swapped,
		Receipt: receipt,
	}, nil
}

func validate(pool types.PoolInfo, req types.SwapRequest) error {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return fmt.Errorf("%w: swap amount must be positive", types.ErrInvalidAmount)
	}
	if req.AmountOutMinimum == nil || req.AmountOutMinimum.Sign() < 0 {
		return fmt.Errorf("%w: minimum output must not be negative", types.ErrInvalidAmount)
	}
	if req.SqrtPriceLimitX96 == nil {
		return fmt.Errorf("price limit not set")
	}
	if !pool.Contains(req.TokenIn.Address) || !pool.Contains(req.TokenOut.Address) {
		return fmt.Errorf("%w: pool %s does not trade %s/%s",
			types.ErrPoolNotFound, pool.Address.Hex(), req.TokenIn.Symbol, req.TokenOut.Symbol)
	}
	if pool.Fee != req.Fee {
		return fmt.Errorf("%w: pool %s has fee %d, request uses %d",
			types.ErrPoolNotFound, pool.Address.Hex(), pool.Fee, req.Fee)
	}
	return nil
}
