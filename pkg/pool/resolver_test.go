package pool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"swap-supply/pkg/chain/chaintest"
	"swap-supply/pkg/contracts"
	"swap-supply/pkg/types"
)

var (
	factory     = common.HexToAddress("0x0227628f3F023bb0B980b67D528571c95c6DaC1c")
	poolAddress = common.HexToAddress("0x2222222222222222222222222222222222222222")
	dai         = types.Asset{Address: common.HexToAddress("0xFF34B3d4Aee8ddCd6F9AFFFB6Fe49bD371b8a357"), Decimals: 18, Symbol: "DAI"}
	link        = types.Asset{Address: common.HexToAddress("0xf8Fb3713D459D7C1018BD0A49D19b4C44290EBE5"), Decimals: 18, Symbol: "LINK"}
	usdc        = types.Asset{Address: common.HexToAddress("0x94a9D9AC8a22534E3FaCa9F4e7F2E2cf85d5E4C8"), Decimals: 6, Symbol: "USDC"}
)

type fakePool struct {
	pool   common.Address
	token0 common.Address
	token1 common.Address
	fee    uint32
	err    error
}

func mustPack(t *testing.T, pack func() ([]byte, error)) []byte {
	data, err := pack()
	require.NoError(t, err)
	return data
}

func (f fakePool) caller(t *testing.T) *chaintest.Caller {
	return &chaintest.Caller{
		Handler: func(to common.Address, data []byte) ([]byte, error) {
			if f.err != nil {
				return nil, f.err
			}
			switch {
			case to == factory:
				return chaintest.AddressWord(f.pool), nil
			case bytes.Equal(data, mustPack(t, contracts.PackToken0)):
				return chaintest.AddressWord(f.token0), nil
			case bytes.Equal(data, mustPack(t, contracts.PackToken1)):
				return chaintest.AddressWord(f.token1), nil
			case bytes.Equal(data, mustPack(t, contracts.PackFee)):
				return chaintest.Word(big.NewInt(int64(f.fee))), nil
			}
			return nil, fmt.Errorf("unexpected call to %s", to.Hex())
		},
	}
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestResolve(t *testing.T) {
	caller := fakePool{pool: poolAddress, token0: link.Address, token1: dai.Address, fee: 3000}.caller(t)

	info, err := NewResolver(caller, factory, quietLogger()).Resolve(context.Background(), dai, link, 3000)
	require.NoError(t, err)
	require.Equal(t, types.PoolInfo{
		Address: poolAddress,
		Token0:  link.Address,
		Token1:  dai.Address,
		Fee:     3000,
	}, info)
	require.Equal(t, 4, caller.Calls())
}

func TestResolve_ZeroAddress(t *testing.T) {
	caller := fakePool{}.caller(t)

	_, err := NewResolver(caller, factory, quietLogger()).Resolve(context.Background(), dai, link, 3000)
	require.ErrorIs(t, err, types.ErrPoolNotFound)
	// only the factory lookup happened
	require.Equal(t, 1, caller.Calls())
}

func TestResolve_Mismatch(t *testing.T) {
	tests := []struct {
		name string
		pool fakePool
	}{
		{"wrong pair", fakePool{pool: poolAddress, token0: usdc.Address, token1: dai.Address, fee: 3000}},
		{"wrong fee", fakePool{pool: poolAddress, token0: dai.Address, token1: link.Address, fee: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.pool.caller(t), factory, quietLogger()).Resolve(context.Background(), dai, link, 3000)
			require.ErrorIs(t, err, types.ErrPoolNotFound)
		})
	}
}

func TestResolve_CallError(t *testing.T) {
	caller := fakePool{err: errors.New("rpc down")}.caller(t)

	_, err := NewResolver(caller, factory, quietLogger()).Resolve(context.Background(), dai, link, 3000)
	require.ErrorContains(t, err, "rpc down")
	require.False(t, errors.Is(err, types.ErrPoolNotFound))
}
