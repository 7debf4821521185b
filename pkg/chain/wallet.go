package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"

	"swap-supply/pkg/types"
)

// TxRequest describes a contract call to sign and submit
type TxRequest struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64 // zero means estimate
}

// WalletConfig holds signer settings
type WalletConfig struct {
	PrivateKey  string
	ChainID     int64
	MaxGasPrice *big.Int // optional fixed ceiling in wei
}

// Wallet signs and submits transactions with a local private key
type Wallet struct {
	*Client
	key         *ecdsa.PrivateKey
	address     common.Address
	chainID     *big.Int
	maxGasPrice *big.Int
}

// NewWallet parses the private key and binds it to the client
func NewWallet(client *Client, cfg WalletConfig) (*Wallet, error) {
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured")
	}
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("invalid chain ID: %d", cfg.ChainID)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Wallet{
		Client:      client,
		key:         privateKey,
		address:     crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:     big.NewInt(cfg.ChainID),
		maxGasPrice: cfg.MaxGasPrice,
	}, nil
}

// From returns the signer address
func (w *Wallet) From() common.Address {
	return w.address
}

// Transact builds, signs and submits a transaction. It returns once the node accepted it;
// use WaitMined for confirmation. Every failure here happens before inclusion.
func (w *Wallet) Transact(ctx context.Context, req TxRequest) (*etypes.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transaction not submitted: %w", err)
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := w.backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get nonce: %w", types.ErrSubmissionFailed, err)
	}

	gasPrice, err := w.gasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get gas price: %w", types.ErrSubmissionFailed, err)
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		estimated, err := w.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  w.address,
			To:    &req.To,
			Value: value,
			Data:  req.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to estimate gas: %w", types.ErrSubmissionFailed, err)
		}
		gasLimit = estimated * 120 / 100 // Add 20% buffer
	}

	to := req.To
	tx := etypes.NewTx(&etypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     req.Data,
	})

	signedTx, err := etypes.SignTx(tx, etypes.NewEIP155Signer(w.chainID), w.key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign transaction: %w", types.ErrSubmissionFailed, err)
	}

	if err := w.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("%w: failed to send transaction: %w", types.ErrSubmissionFailed, err)
	}

	w.log.WithFields(logrus.Fields{
		"tx":       signedTx.Hash().Hex(),
		"to":       to.Hex(),
		"nonce":    nonce,
		"gas":      gasLimit,
		"gasPrice": gasPrice.String(),
	}).Info("transaction sent")

	return signedTx, nil
}

// gasPrice returns the suggested gas price, capped by the configured ceiling
func (w *Wallet) gasPrice(ctx context.Context) (*big.Int, error) {
	suggested, err := w.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	if w.maxGasPrice != nil && w.maxGasPrice.Sign() > 0 && suggested.Cmp(w.maxGasPrice) > 0 {
		return new(big.Int).Set(w.maxGasPrice), nil
	}
	return suggested, nil
}
