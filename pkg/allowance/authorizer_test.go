package allowance

import (
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
	owner  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	router = common.HexToAddress("0x3bFA4769FB09eefC5a80d6E87c3B9C650f7Ae48E")
	dai    = types.Asset{
		ChainID:  11155111,
		Address:  common.HexToAddress("0xFF34B3d4Aee8ddCd6F9AFFFB6Fe49bD371b8a357"),
		Decimals: 18,
		Symbol:   "DAI",
	}
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestAuthorize(t *testing.T) {
	signer := &chaintest.Transactor{Account: owner}
	authorizer := NewAuthorizer(signer, quietLogger())

	amount, _ := new(big.Int).SetString("1000000000000000000", 10)
	receipt, err := authorizer.Authorize(context.Background(), dai, amount, router)
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())

	requests := signer.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, dai.Address, requests[0].To)

	expected, err := contracts.PackApprove(router, amount)
	require.NoError(t, err)
	require.Equal(t, expected, requests[0].Data)
}

func TestAuthorize_SubmissionFailed(t *testing.T) {
	signer := &chaintest.Transactor{
		Account:     owner,
		TransactErr: fmt.Errorf("%w: nonce too low", types.ErrSubmissionFailed),
	}
	authorizer := NewAuthorizer(signer, quietLogger())

	_, err := authorizer.Authorize(context.Background(), dai, big.NewInt(1), router)
	require.ErrorIs(t, err, types.ErrSubmissionFailed)
	require.False(t, errors.Is(err, types.ErrApprovalRejected))
}

func TestAuthorize_Reverted(t *testing.T) {
	signer := &chaintest.Transactor{Account: owner, Reverted: true}
	authorizer := NewAuthorizer(signer, quietLogger())

	receipt, err := authorizer.Authorize(context.Background(), dai, big.NewInt(1), router)
	require.ErrorIs(t, err, types.ErrApprovalRejected)
	require.False(t, receipt.Succeeded())
}
