package pool

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"swap-supply/pkg/chain"
	"swap-supply/pkg/contracts"
	"swap-supply/pkg/types"
)

// Resolver locates AMM pools through the factory contract
type Resolver struct {
	caller  chain.Caller
	factory common.Address
	log     logrus.FieldLogger
}

func NewResolver(caller chain.Caller, factory common.Address, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		caller:  caller,
		factory: factory,
		log:     log,
	}
}

// Resolve returns the pool for the pair at the given fee tier.
// A zero address from the factory is terminal: no other fee tier is tried.
func (r *Resolver) Resolve(ctx context.Context, tokenIn, tokenOut types.Asset, fee uint32) (types.PoolInfo, error) {
	data, err := contracts.PackGetPool(tokenIn.Address, tokenOut.Address, fee)
	if err != nil {
		return types.PoolInfo{}, err
	}

	result, err := r.caller.Call(ctx, r.factory, data)
	if err != nil {
		return types.PoolInfo{}, fmt.Errorf("failed to get pool address: %w", err)
	}

	poolAddress, err := contracts.UnpackGetPool(result)
	if err != nil {
		return types.PoolInfo{}, fmt.Errorf("failed to get pool address: %w", err)
	}

	if poolAddress == (common.Address{}) {
		return types.PoolInfo{}, fmt.Errorf("%w: %s/%s at fee %d",
			types.ErrPoolNotFound, tokenIn.Symbol, tokenOut.Symbol, fee)
	}

	info, err := r.readPool(ctx, poolAddress)
	if err != nil {
		return types.PoolInfo{}, err
	}

	if !info.Contains(tokenIn.Address) || !info.Contains(tokenOut.Address) {
		return types.PoolInfo{}, fmt.Errorf("%w: pool %s trades %s/%s, not %s/%s",
			types.ErrPoolNotFound, poolAddress.Hex(),
			info.Token0.Hex(), info.Token1.Hex(), tokenIn.Symbol, tokenOut.Symbol)
	}
	if info.Fee != fee {
		return types.PoolInfo{}, fmt.Errorf("%w: pool %s has fee %d, expected %d",
			types.ErrPoolNotFound, poolAddress.Hex(), info.Fee, fee)
	}

	r.log.WithFields(logrus.Fields{
		"pool":   poolAddress.Hex(),
		"token0": info.Token0.Hex(),
		"token1": info.Token1.Hex(),
		"fee":    info.Fee,
	}).Debug("pool resolved")

	return info, nil
}

// readPool fetches the pool immutables concurrently
func (r *Resolver) readPool(ctx context.Context, poolAddress common.Address) (types.PoolInfo, error) {
	info := types.PoolInfo{Address: poolAddress}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		token0, err := r.readAddress(ctx, poolAddress, contracts.PackToken0, contracts.UnpackToken0)
		if err != nil {
			return fmt.Errorf("failed to read token0: %w", err)
		}
		info.Token0 = token0
		return nil
	})

	g.Go(func() error {
		token1, err := r.readAddress(ctx, poolAddress, contracts.PackToken1, contracts.UnpackToken1)
		if err != nil {
			return fmt.Errorf("failed to read token1: %w", err)
		}
		info.Token1 = token1
		return nil
	})

	g.Go(func() error {
		data, err := contracts.PackFee()
		if err != nil {
			return err
		}
		result, err := r.caller.Call(ctx, poolAddress, data)
		if err != nil {
			return fmt.Errorf("failed to read fee: %w", err)
		}
		fee, err := contracts.UnpackFee(result)
		if err != nil {
			return fmt.Errorf("failed to read fee: %w", err)
		}
		info.Fee = fee
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.PoolInfo{}, err
	}

	return info, nil
}

func (r *Resolver) readAddress(
	ctx context.Context,
	poolAddress common.Address,
	pack func() ([]byte, error),
	unpack func([]byte) (common.Address, error),
) (common.Address, error) {
	data, err := pack()
	if err != nil {
		return common.Address{}, err
	}
	result, err := r.caller.Call(ctx, poolAddress, data)
	if err != nil {
		return common.Address{}, err
	}
	return unpack(result)
}
