package deposit

import (
	"context"
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
	lendingPool = common.HexToAddress("0x6Ae43d3271ff6888e7Fc43Fd7321a503ff738951")
	holder      = common.HexToAddress("0x1111111111111111111111111111111111111111")
	link        = types.Asset{Address: common.HexToAddress("0xf8Fb3713D459D7C1018BD0A49D19b4C44290EBE5"), Decimals: 18, Symbol: "LINK"}
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestDeposit(t *testing.T) {
	signer := &chaintest.Transactor{Account: holder}
	executor := NewExecutor(signer, lendingPool, 0, quietLogger())

	amount, _ := new(big.Int).SetString("25000000000000000000", 10)
	receipt, err := executor.Deposit(context.Background(), types.DepositRequest{
		Asset:       link,
		Amount:      amount,
		Beneficiary: holder,
	})
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())

	requests := signer.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, lendingPool, requests[0].To)
	require.Equal(t, DefaultGasLimit, requests[0].GasLimit)

	expected, err := contracts.PackSupply(link.Address, amount, holder, 0)
	require.NoError(t, err)
	require.Equal(t, expected, requests[0].Data)
}

func TestDeposit_CustomGasLimit(t *testing.T) {
	signer := &chaintest.Transactor{Account: holder}
	executor := NewExecutor(signer, lendingPool, 750000, quietLogger())

	_, err := executor.Deposit(context.Background(), types.DepositRequest{Asset: link, Amount: big.NewInt(1), Beneficiary: holder})
	require.NoError(t, err)
	require.Equal(t, uint64(750000), signer.Requests()[0].GasLimit)
}

func TestDeposit_Failures(t *testing.T) {
	tests := []struct {
		name     string
		signer   *chaintest.Transactor
		expected error
	}{
		{
			name:     "reverted",
			signer:   &chaintest.Transactor{Account: holder, Reverted: true},
			expected: types.ErrDepositReverted,
		},
		{
			name: "submission failed",
			signer: &chaintest.Transactor{
				Account:     holder,
				TransactErr: fmt.Errorf("%w: replacement transaction underpriced", types.ErrSubmissionFailed),
			},
			expected: types.ErrSubmissionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := NewExecutor(tt.signer, lendingPool, 0, quietLogger())
			_, err := executor.Deposit(context.Background(), types.DepositRequest{Asset: link, Amount: big.NewInt(1), Beneficiary: holder})
			require.ErrorIs(t, err, tt.expected)
		})
	}
}
