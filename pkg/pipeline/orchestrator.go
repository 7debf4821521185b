package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"swap-supply/pkg/amount"
	"swap-supply/pkg/swap"
	"swap-supply/pkg/types"
)

// Config is the fixed description of a run. It is copied into the Orchestrator and never mutated.
type Config struct {
	InputAsset  types.Asset
	OutputAsset types.Asset
	Router      common.Address
	LendingPool common.Address
	FeeTier     uint32
	// MinAmountOut is the swap slippage floor in display units of OutputAsset. Zero disables it.
	MinAmountOut decimal.Decimal
	ReferralCode uint16
	// Beneficiary receives the lending position; the zero address means the signer
	Beneficiary common.Address
}

// Validate checks that the configuration describes a runnable pipeline
func (c Config) Validate() error {
	if c.InputAsset.Address == (common.Address{}) || c.OutputAsset.Address == (common.Address{}) {
		return errors.New("input and output assets are required")
	}
	if c.InputAsset.Address == c.OutputAsset.Address {
		return errors.New("input and output assets must differ")
	}
	if c.Router == (common.Address{}) {
		return errors.New("router address is required")
	}
	if c.LendingPool == (common.Address{}) {
		return errors.New("lending pool address is required")
	}
	if c.FeeTier == 0 {
		return errors.New("fee tier is required")
	}
	if c.MinAmountOut.IsNegative() {
		return fmt.Errorf("%w: minimum output must not be negative", types.ErrInvalidAmount)
	}
	return nil
}

type Authorizer interface {
	Authorize(ctx context.Context, asset types.Asset, amount *big.Int, spender common.Address) (types.TransactionReceipt, error)
}

type PoolResolver interface {
	Resolve(ctx context.Context, tokenIn, tokenOut types.Asset, fee uint32) (types.PoolInfo, error)
}

type Swapper interface {
	Swap(ctx context.Context, pool types.PoolInfo, req types.SwapRequest) (types.SwapResult, error)
}

type Depositor interface {
	Deposit(ctx context.Context, req types.DepositRequest) (types.TransactionReceipt, error)
}

// Dependencies are the components a run drives, all acting for Account
type Dependencies struct {
	Account    common.Address
	Authorizer Authorizer
	Pools      PoolResolver
	Swapper    Swapper
	Depositor  Depositor
}

// Result collects what a run produced up to the point it stopped
type Result struct {
	RunID          string
	State          State
	Input          types.Quantity
	Pool           types.PoolInfo
	Swapped        types.Quantity
	InputApproval  *types.TransactionReceipt
	Swap           *types.TransactionReceipt
	OutputApproval *types.TransactionReceipt
	Deposit        *types.TransactionReceipt
}

type Option func(*Orchestrator)

// WithReporter adds a reporter notified on every transition
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		o.reporters = append(o.reporters, r)
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithRunIDs overrides how run identifiers are generated
func WithRunIDs(next func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = next
	}
}

// Orchestrator runs authorize, swap, authorize, deposit in order and stops at the first failure.
// Confirmed steps are never unwound.
type Orchestrator struct {
	cfg       Config
	deps      Dependencies
	reporters MultiReporter
	log       logrus.FieldLogger
	newRunID  func() string
}

func New(cfg Config, deps Dependencies, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		deps:     deps,
		log:      logrus.StandardLogger(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns a copy of the run configuration
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Run converts displayAmount of the input asset and drives it through the pipeline.
// On failure the partial Result is returned together with a *RunError.
func (o *Orchestrator) Run(ctx context.Context, displayAmount string) (*Result, error) {
	r := &run{
		id:        o.newRunID(),
		state:     Idle,
		reporters: o.reporters,
	}
	r.log = o.log.WithFields(logrus.Fields{
		"run":      r.id,
		"tokenIn":  o.cfg.InputAsset.Symbol,
		"tokenOut": o.cfg.OutputAsset.Symbol,
	})
	result := &Result{RunID: r.id}

	if err := o.execute(ctx, r, result, displayAmount); err != nil {
		runErr := r.fail(err)
		result.State = r.state
		return result, runErr
	}
	result.State = r.state
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, r *run, result *Result, displayAmount string) error {
	cfg := o.cfg

	// Idle: everything that can be rejected without touching the chain
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	inputBase, err := amount.ToBaseUnits(displayAmount, cfg.InputAsset)
	if err != nil {
		return err
	}
	if inputBase.Sign() == 0 {
		return fmt.Errorf("%w: input amount must be positive", types.ErrInvalidAmount)
	}
	minOut, err := amount.DecimalToBaseUnits(cfg.MinAmountOut, cfg.OutputAsset)
	if err != nil {
		return fmt.Errorf("minimum output: %w", err)
	}
	input, err := amount.ToQuantity(inputBase, cfg.InputAsset)
	if err != nil {
		return err
	}
	result.Input = input

	if err := r.advance(ctx, input, nil); err != nil {
		return err
	}

	inputApproval, err := o.authorize(ctx, input, cfg.Router)
	if err != nil {
		return err
	}
	result.InputApproval = &inputApproval

	if err := r.advance(ctx, input, &inputApproval); err != nil {
		return err
	}

	swapped, err := o.swap(ctx, result, input, minOut)
	if err != nil {
		return err
	}
	result.Swapped = swapped

	if err := r.advance(ctx, swapped, result.Swap); err != nil {
		return err
	}

	outputApproval, err := o.authorize(ctx, swapped, cfg.LendingPool)
	if err != nil {
		return err
	}
	result.OutputApproval = &outputApproval

	if err := r.advance(ctx, swapped, &outputApproval); err != nil {
		return err
	}

	deposited, err := o.deposit(ctx, swapped)
	if err != nil {
		return err
	}
	result.Deposit = &deposited

	r.complete(swapped, &deposited)
	return nil
}

func (o *Orchestrator) authorize(ctx context.Context, q types.Quantity, spender common.Address) (types.TransactionReceipt, error) {
	base, err := amount.QuantityToBaseUnits(q)
	if err != nil {
		return types.TransactionReceipt{}, err
	}
	return o.deps.Authorizer.Authorize(ctx, q.Asset, base, spender)
}

func (o *Orchestrator) swap(ctx context.Context, result *Result, input types.Quantity, minOut *big.Int) (types.Quantity, error) {
	pool, err := o.deps.Pools.Resolve(ctx, o.cfg.InputAsset, o.cfg.OutputAsset, o.cfg.FeeTier)
	if err != nil {
		return types.Quantity{}, err
	}
	result.Pool = pool

	inputBase, err := amount.QuantityToBaseUnits(input)
	if err != nil {
		return types.Quantity{}, err
	}

	req := swap.NewRequest(pool, o.cfg.InputAsset, o.cfg.OutputAsset, o.deps.Account, inputBase, minOut)
	res, err := o.deps.Swapper.Swap(ctx, pool, req)
	if err != nil {
		return types.Quantity{}, err
	}
	result.Swap = &res.Receipt

	return res.Amount, nil
}

func (o *Orchestrator) deposit(ctx context.Context, q types.Quantity) (types.TransactionReceipt, error) {
	base, err := amount.QuantityToBaseUnits(q)
	if err != nil {
		return types.TransactionReceipt{}, err
	}

	beneficiary := o.cfg.Beneficiary
	if beneficiary == (common.Address{}) {
		beneficiary = o.deps.Account
	}

	return o.deps.Depositor.Deposit(ctx, types.DepositRequest{
		Asset:        q.Asset,
		Amount:       base,
		Beneficiary:  beneficiary,
		ReferralCode: o.cfg.ReferralCode,
	})
}

// run tracks the state of a single Run call
type run struct {
	id        string
	state     State
	reporters Reporter
	log       logrus.FieldLogger
}

// advance moves to the next state unless ctx is already done
func (r *run) advance(ctx context.Context, q types.Quantity, receipt *types.TransactionReceipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.transition(r.state.next(), q, receipt, nil)
	return nil
}

func (r *run) complete(q types.Quantity, receipt *types.TransactionReceipt) {
	r.transition(Complete, q, receipt, nil)
	r.log.WithField("amount", q.String()).Info("run complete")
}

func (r *run) fail(err error) error {
	failedIn := r.state
	r.log.WithError(err).WithField("state", failedIn.String()).Error("run failed")
	r.transition(Failed, types.Quantity{}, nil, err)
	return &RunError{RunID: r.id, State: failedIn, Err: err}
}

func (r *run) transition(to State, q types.Quantity, receipt *types.TransactionReceipt, err error) {
	from := r.state
	r.state = to
	r.log.WithFields(logrus.Fields{
		"from": from.String(),
		"to":   to.String(),
	}).Debug("state transition")
	r.reporters.Transition(Event{
		RunID:    r.id,
		From:     from,
		To:       to,
		Quantity: q,
		Receipt:  receipt,
		Err:      err,
	})
}
