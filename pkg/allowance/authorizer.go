package allowance

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

// Authorizer grants ERC-20 allowances and waits for them to be mined
type Authorizer struct {
	signer chain.Transactor
	log    logrus.FieldLogger
}

// NewAuthorizer creates an authorizer for the signer's account
func NewAuthorizer(signer chain.Transactor, log logrus.FieldLogger) *Authorizer {
	return &Authorizer{
		signer: signer,
		log:    log,
	}
}

// Authorize sets the allowance of spender over the signer's asset to exactly amount.
// A fresh approve overwrites any prior allowance; nothing is cached between calls.
func (a *Authorizer) Authorize(
	ctx context.Context,
	asset types.Asset,
	amount *big.Int,
	spender common.Address,
) (types.TransactionReceipt, error) {
	grant := types.AuthorizationGrant{
		Asset:   asset,
		Owner:   a.signer.From(),
		Spender: spender,
		Amount:  amount,
	}

	log := a.log.WithFields(logrus.Fields{
		"asset":   asset.Symbol,
		"owner":   grant.Owner.Hex(),
		"spender": spender.Hex(),
		"amount":  amount.String(),
	})

	data, err := contracts.PackApprove(grant.Spender, grant.Amount)
	if err != nil {
		return types.TransactionReceipt{}, fmt.Errorf("%w: %w", types.ErrSubmissionFailed, err)
	}

	log.Debug("sending approval transaction")

	tx, err := a.signer.Transact(ctx, chain.TxRequest{
		To:   asset.Address,
		Data: data,
	})
	if err != nil {
		return types.TransactionReceipt{}, fmt.Errorf("approve %s: %w", asset.Symbol, err)
	}

	receipt, err := a.signer.WaitMined(ctx, tx)
	if err != nil {
		return types.TransactionReceipt{}, fmt.Errorf("approve %s: %w", asset.Symbol, err)
	}

	if !receipt.Succeeded() {
		return receipt, fmt.Errorf("%w: approve %s for %s reverted in tx %s",
			types.ErrApprovalRejected, asset.Symbol, spender.Hex(), receipt.Hash.Hex())
	}

	log.WithField("tx", receipt.Hash.Hex()).Info("approval confirmed")

	return receipt, nil
}
