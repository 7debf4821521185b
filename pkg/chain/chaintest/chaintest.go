// Package chaintest provides in-memory implementations of the chain interfaces for tests.
package chaintest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"

	"swap-supply/pkg/chain"
	"swap-supply/pkg/types"
)

// Transactor records submitted requests and mines them immediately
type Transactor struct {
	Account common.Address
	// TransactErr is returned by every Transact call when set
	TransactErr error
	// Reverted makes every mined receipt report a failed status
	Reverted bool
	// OnMined runs after a transaction is mined, before WaitMined returns
	OnMined func(req chain.TxRequest)

	mu       sync.Mutex
	requests []chain.TxRequest
	byHash   map[common.Hash]chain.TxRequest
}

func (t *Transactor) From() common.Address {
	return t.Account
}

func (t *Transactor) Transact(ctx context.Context, req chain.TxRequest) (*etypes.Transaction, error) {
	if t.TransactErr != nil {
		return nil, t.TransactErr
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	to := req.To
	tx := etypes.NewTx(&etypes.LegacyTx{
		Nonce:    uint64(len(t.requests)),
		GasPrice: big.NewInt(1),
		Gas:      req.GasLimit,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     req.Data,
	})

	if t.byHash == nil {
		t.byHash = make(map[common.Hash]chain.TxRequest)
	}
	t.requests = append(t.requests, req)
	t.byHash[tx.Hash()] = req

	return tx, nil
}

func (t *Transactor) WaitMined(ctx context.Context, tx *etypes.Transaction) (types.TransactionReceipt, error) {
	t.mu.Lock()
	req := t.byHash[tx.Hash()]
	t.mu.Unlock()

	if t.OnMined != nil {
		t.OnMined(req)
	}

	status := etypes.ReceiptStatusSuccessful
	if t.Reverted {
		status = etypes.ReceiptStatusFailed
	}

	return types.TransactionReceipt{
		Hash:        tx.Hash(),
		Status:      status,
		BlockNumber: tx.Nonce() + 1,
		GasUsed:     tx.Gas(),
	}, nil
}

// Requests returns the submitted requests in order
func (t *Transactor) Requests() []chain.TxRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]chain.TxRequest(nil), t.requests...)
}

// Caller answers read-only calls with Handler
type Caller struct {
	Handler func(to common.Address, data []byte) ([]byte, error)

	mu    sync.Mutex
	calls int
}

func (c *Caller) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Handler(to, data)
}

// Calls returns how many calls were made
func (c *Caller) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Word ABI-encodes an unsigned integer return value
func Word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

// AddressWord ABI-encodes an address return value
func AddressWord(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}
