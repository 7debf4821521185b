package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"swap-supply/config"
	"swap-supply/pkg/allowance"
	"swap-supply/pkg/balance"
	"swap-supply/pkg/chain"
	"swap-supply/pkg/deposit"
	"swap-supply/pkg/pipeline"
	"swap-supply/pkg/pool"
	"swap-supply/pkg/swap"
)

// app holds the connected components shared by the subcommands
type app struct {
	cfg    *config.Config
	eth    *ethclient.Client
	client *chain.Client
	wallet *chain.Wallet
}

// connect loads configuration and dials the RPC endpoint. The wallet is only built when withSigner is set.
func connect(ctx context.Context, withSigner bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if withSigner {
		if err := cfg.RequireSigner(); err != nil {
			return nil, err
		}
	}

	eth, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Int64() != cfg.ChainID {
		eth.Close()
		return nil, fmt.Errorf("RPC endpoint serves chain %s, configuration expects %d", chainID, cfg.ChainID)
	}

	a := &app{
		cfg:    cfg,
		eth:    eth,
		client: chain.NewClient(eth, cfg.PollInterval, logger),
	}

	if cfg.PrivateKey != "" {
		a.wallet, err = chain.NewWallet(a.client, chain.WalletConfig{
			PrivateKey:  cfg.PrivateKey,
			ChainID:     cfg.ChainID,
			MaxGasPrice: cfg.MaxGasPrice,
		})
		if err != nil {
			eth.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) Close() {
	a.eth.Close()
}

// account is the address whose balances are inspected
func (a *app) account(override string) (common.Address, error) {
	if override != "" {
		if !common.IsHexAddress(override) {
			return common.Address{}, fmt.Errorf("invalid address: %s", override)
		}
		return common.HexToAddress(override), nil
	}
	if a.wallet == nil {
		return common.Address{}, fmt.Errorf("no address given and no private key configured")
	}
	return a.wallet.From(), nil
}

func (a *app) resolver() *pool.Resolver {
	return pool.NewResolver(a.client, a.cfg.Factory, logger)
}

// orchestrator wires the pipeline components around the wallet
func (a *app) orchestrator(reporters ...pipeline.Reporter) *pipeline.Orchestrator {
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	for _, r := range reporters {
		opts = append(opts, pipeline.WithReporter(r))
	}

	return pipeline.New(a.cfg.Pipeline(), pipeline.Dependencies{
		Account:    a.wallet.From(),
		Authorizer: allowance.NewAuthorizer(a.wallet, logger),
		Pools:      a.resolver(),
		Swapper:    swap.NewExecutor(a.wallet, balance.NewOracle(a.client), a.cfg.Router, logger),
		Depositor:  deposit.NewExecutor(a.wallet, a.cfg.LendingPool, a.cfg.DepositGasLimit, logger),
	}, opts...)
}
