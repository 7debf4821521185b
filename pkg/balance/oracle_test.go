package balance

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"swap-supply/pkg/chain/chaintest"
	"swap-supply/pkg/contracts"
	"swap-supply/pkg/types"
)

var link = types.Asset{
	ChainID:  11155111,
	Address:  common.HexToAddress("0xf8Fb3713D459D7C1018BD0A49D19b4C44290EBE5"),
	Decimals: 18,
	Symbol:   "LINK",
}

func TestBalanceOf(t *testing.T) {
	holder := common.HexToAddress("0x1111111111111111111111111111111111111111")
	raw, _ := new(big.Int).SetString("25500000000000000000", 10)

	caller := &chaintest.Caller{
		Handler: func(to common.Address, data []byte) ([]byte, error) {
			require.Equal(t, link.Address, to)
			expected, err := contracts.PackBalanceOf(holder)
			require.NoError(t, err)
			require.Equal(t, expected, data)
			return chaintest.Word(raw), nil
		},
	}

	q, err := NewOracle(caller).BalanceOf(context.Background(), link, holder)
	require.NoError(t, err)
	require.Equal(t, "25.5", q.Amount.String())
	require.Equal(t, link, q.Asset)
}

func TestBalanceOf_CallError(t *testing.T) {
	caller := &chaintest.Caller{
		Handler: func(to common.Address, data []byte) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := NewOracle(caller).BalanceOf(context.Background(), link, common.Address{})
	require.ErrorContains(t, err, "connection refused")
}

func TestDecimals(t *testing.T) {
	caller := &chaintest.Caller{
		Handler: func(to common.Address, data []byte) ([]byte, error) {
			expected, err := contracts.PackDecimals()
			require.NoError(t, err)
			require.Equal(t, expected, data)
			return chaintest.Word(big.NewInt(6)), nil
		},
	}

	decimals, err := NewOracle(caller).Decimals(context.Background(), link.Address)
	require.NoError(t, err)
	require.Equal(t, uint8(6), decimals)
}

func TestAllowance(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	lendingPool := common.HexToAddress("0x6Ae43d3271ff6888e7Fc43Fd7321a503ff738951")

	caller := &chaintest.Caller{
		Handler: func(to common.Address, data []byte) ([]byte, error) {
			require.Equal(t, link.Address, to)
			expected, err := contracts.PackAllowance(owner, lendingPool)
			require.NoError(t, err)
			require.Equal(t, expected, data)
			return chaintest.Word(big.NewInt(500000000000000000)), nil
		},
	}

	q, err := NewOracle(caller).Allowance(context.Background(), link, owner, lendingPool)
	require.NoError(t, err)
	require.Equal(t, "0.5", q.Amount.String())
	require.Equal(t, link, q.Asset)
}

func TestAllowance_CallError(t *testing.T) {
	caller := &chaintest.Caller{
		Handler: func(to common.Address, data []byte) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := NewOracle(caller).Allowance(context.Background(), link, common.Address{}, common.Address{})
	require.ErrorContains(t, err, "connection refused")
}
