package deposit

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"swap-supply/pkg/chain"
	"swap-supply/pkg/contracts"
	"swap-supply/pkg/types"
)

// DefaultGasLimit caps the supply transaction instead of estimating it
const DefaultGasLimit uint64 = 500000

// Executor supplies assets into the lending pool
type Executor struct {
	signer      chain.Transactor
	lendingPool common.Address
	gasLimit    uint64
	log         logrus.FieldLogger
}

// NewExecutor creates a deposit executor. A zero gasLimit uses DefaultGasLimit.
func NewExecutor(signer chain.Transactor, lendingPool common.Address, gasLimit uint64, log logrus.FieldLogger) *Executor {
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}
	return &Executor{
		signer:      signer,
		lendingPool: lendingPool,
		gasLimit:    gasLimit,
		log:         log,
	}
}

// Deposit supplies the requested amount on behalf of the beneficiary and waits for the receipt
func (e *Executor) Deposit(ctx context.Context, req types.DepositRequest) (types.TransactionReceipt, error) {
	if req.Amount == nil || req.Amount.Sign() < 0 {
		return types.TransactionReceipt{}, fmt.Errorf("%w: deposit amount must not be negative", types.ErrInvalidAmount)
	}

	log := e.log.WithFields(logrus.Fields{
		"asset":       req.Asset.Symbol,
		"amount":      req.Amount.String(),
		"beneficiary": req.Beneficiary.Hex(),
		"pool":        e.lendingPool.Hex(),
	})

	data, err := contracts.PackSupply(req.Asset.Address, req.Amount, req.Beneficiary, req.ReferralCode)
	if err != nil {
		return types.TransactionReceipt{}, fmt.Errorf("%w: %w", types.ErrSubmissionFailed, err)
	}

	log.Debug("sending supply transaction")

	tx, err := e.signer.Transact(ctx, chain.TxRequest{
		To:       e.lendingPool,
		Data:     data,
		GasLimit: e.gasLimit,
	})
	if err != nil {
		return types.TransactionReceipt{}, fmt.Errorf("supply %s: %w", req.Asset.Symbol, err)
	}

	receipt, err := e.signer.WaitMined(ctx, tx)
	if err != nil {
		return types.TransactionReceipt{}, fmt.Errorf("supply %s: %w", req.Asset.Symbol, err)
	}

	if !receipt.Succeeded() {
		return receipt, fmt.Errorf("%w: supply %s reverted in tx %s",
			types.ErrDepositReverted, req.Asset.Symbol, receipt.Hash.Hex())
	}

	log.WithField("tx", receipt.Hash.Hex()).Info("deposit confirmed")

	return receipt, nil
}
