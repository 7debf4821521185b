package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"swap-supply/pkg/types"
)

const DefaultPollInterval = time.Second

// Backend is the subset of *ethclient.Client used by this package
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *etypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*etypes.Receipt, error)
}

// Caller performs read-only contract calls against the latest state
type Caller interface {
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Transactor signs, submits and awaits transactions for a single account
type Transactor interface {
	From() common.Address
	Transact(ctx context.Context, req TxRequest) (*etypes.Transaction, error)
	WaitMined(ctx context.Context, tx *etypes.Transaction) (types.TransactionReceipt, error)
}

// Dial connects to an RPC endpoint
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return client, nil
}

// Client is the network client: read-only calls and confirmation waits
type Client struct {
	backend      Backend
	pollInterval time.Duration
	log          logrus.FieldLogger
}

// NewClient wraps a backend. A zero poll interval uses DefaultPollInterval.
func NewClient(backend Backend, pollInterval time.Duration, log logrus.FieldLogger) *Client {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Client{
		backend:      backend,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Call executes a read-only call against the latest block
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", to.Hex(), err)
	}
	return result, nil
}

// WaitMined blocks until the transaction is included and returns its receipt.
// There is no timeout; only ctx cancellation stops the wait.
func (c *Client) WaitMined(ctx context.Context, tx *etypes.Transaction) (types.TransactionReceipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	log := c.log.WithField("tx", tx.Hash().Hex())
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, tx.Hash())
		if err == nil {
			log.WithFields(logrus.Fields{
				"block":  receipt.BlockNumber,
				"status": receipt.Status,
			}).Debug("transaction mined")
			return NewReceipt(receipt), nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			log.WithError(err).Debug("failed to get receipt, retrying")
		} else {
			log.Trace("transaction not yet mined")
		}

		select {
		case <-ctx.Done():
			return types.TransactionReceipt{}, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// NewReceipt converts a go-ethereum receipt
func NewReceipt(r *etypes.Receipt) types.TransactionReceipt {
	receipt := types.TransactionReceipt{
		Hash:    r.TxHash,
		Status:  r.Status,
		GasUsed: r.GasUsed,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	return receipt
}
