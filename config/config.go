package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"swap-supply/pkg/amount"
	"swap-supply/pkg/pipeline"
	"swap-supply/pkg/types"
)

// Sepolia deployment used when nothing else is configured
const (
	DefaultChainID         = 11155111
	DefaultFactory         = "0x0227628f3F023bb0B980b67D528571c95c6DaC1c"
	DefaultRouter          = "0x3bFA4769FB09eefC5a80d6E87c3B9C650f7Ae48E"
	DefaultLendingPool     = "0x6Ae43d3271ff6888e7Fc43Fd7321a503ff738951"
	DefaultFeeTier         = 3000
	DefaultDepositGasLimit = 500000
	DefaultExplorerURL     = "https://sepolia.etherscan.io/tx/"
	DefaultPollInterval    = time.Second
	DefaultPushJob         = "swap-supply"
)

// AssetConfig describes one ERC-20 token
type AssetConfig struct {
	Address  string
	Decimals uint8
	Symbol   string
	Name     string
}

// Config holds the application configuration
type Config struct {
	RPCURL          string
	PrivateKey      string
	ChainID         int64
	Factory         common.Address
	Router          common.Address
	LendingPool     common.Address
	Input           types.Asset
	Output          types.Asset
	FeeTier         uint32
	MinAmountOut    decimal.Decimal
	ReferralCode    uint16
	Beneficiary     common.Address
	DepositGasLimit uint64
	// MaxGasPrice in wei; nil means no ceiling
	MaxGasPrice  *big.Int
	PollInterval time.Duration
	ExplorerURL  string
	JournalPath  string
	PushURL      string
	PushJob      string
}

// Load reads configuration from .env-populated environment variables and an optional config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".swap-supply")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("SWAP_SUPPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// bare names kept for existing .env files
	_ = v.BindEnv("rpc_url", "SWAP_SUPPLY_RPC_URL", "RPC_URL")
	_ = v.BindEnv("private_key", "SWAP_SUPPLY_PRIVATE_KEY", "PRIVATE_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain_id", DefaultChainID)
	v.SetDefault("factory", DefaultFactory)
	v.SetDefault("router", DefaultRouter)
	v.SetDefault("lending_pool", DefaultLendingPool)
	v.SetDefault("fee_tier", DefaultFeeTier)
	v.SetDefault("min_amount_out", "0")
	v.SetDefault("referral_code", 0)
	v.SetDefault("deposit_gas_limit", DefaultDepositGasLimit)
	v.SetDefault("explorer_url", DefaultExplorerURL)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("push_job", DefaultPushJob)

	v.SetDefault("input.address", "0xFF34B3d4Aee8ddCd6F9AFFFB6Fe49bD371b8a357")
	v.SetDefault("input.decimals", 18)
	v.SetDefault("input.symbol", "DAI")
	v.SetDefault("input.name", "MakerDAO")

	v.SetDefault("output.address", "0xf8Fb3713D459D7C1018BD0A49D19b4C44290EBE5")
	v.SetDefault("output.decimals", 18)
	v.SetDefault("output.symbol", "LINK")
	v.SetDefault("output.name", "Chainlink")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		RPCURL:          strings.TrimSpace(v.GetString("rpc_url")),
		PrivateKey:      strings.TrimSpace(v.GetString("private_key")),
		ChainID:         v.GetInt64("chain_id"),
		FeeTier:         v.GetUint32("fee_tier"),
		ReferralCode:    v.GetUint16("referral_code"),
		DepositGasLimit: v.GetUint64("deposit_gas_limit"),
		PollInterval:    v.GetDuration("poll_interval"),
		ExplorerURL:     v.GetString("explorer_url"),
		JournalPath:     v.GetString("journal_path"),
		PushURL:         v.GetString("push_url"),
		PushJob:         v.GetString("push_job"),
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not found. Please set RPC_URL environment variable or rpc_url in .swap-supply.yaml")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive")
	}
	if cfg.DepositGasLimit == 0 {
		return nil, fmt.Errorf("deposit_gas_limit must be positive")
	}

	var err error
	if cfg.Factory, err = parseAddress("factory", v.GetString("factory")); err != nil {
		return nil, err
	}
	if cfg.Router, err = parseAddress("router", v.GetString("router")); err != nil {
		return nil, err
	}
	if cfg.LendingPool, err = parseAddress("lending_pool", v.GetString("lending_pool")); err != nil {
		return nil, err
	}
	if beneficiary := v.GetString("beneficiary"); beneficiary != "" {
		if cfg.Beneficiary, err = parseAddress("beneficiary", beneficiary); err != nil {
			return nil, err
		}
	}

	if cfg.Input, err = assetConfig(v, "input").asset("input", cfg.ChainID); err != nil {
		return nil, err
	}
	if cfg.Output, err = assetConfig(v, "output").asset("output", cfg.ChainID); err != nil {
		return nil, err
	}

	minOut := v.GetString("min_amount_out")
	if _, err := amount.ToBaseUnits(minOut, cfg.Output); err != nil {
		return nil, fmt.Errorf("invalid min_amount_out: %w", err)
	}
	cfg.MinAmountOut = decimal.RequireFromString(strings.TrimSpace(minOut))

	if gwei := v.GetString("max_gas_price_gwei"); gwei != "" {
		wei, err := amount.ToBaseUnits(gwei, types.Asset{Symbol: "gwei", Decimals: 9})
		if err != nil || wei.Sign() <= 0 {
			return nil, fmt.Errorf("invalid max_gas_price_gwei %q", gwei)
		}
		cfg.MaxGasPrice = wei
	}

	if err := cfg.Pipeline().Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// assetConfig reads key by key so nested env overrides such as SWAP_SUPPLY_INPUT_ADDRESS apply
func assetConfig(v *viper.Viper, key string) AssetConfig {
	return AssetConfig{
		Address:  v.GetString(key + ".address"),
		Decimals: v.GetUint8(key + ".decimals"),
		Symbol:   v.GetString(key + ".symbol"),
		Name:     v.GetString(key + ".name"),
	}
}

func (a AssetConfig) asset(key string, chainID int64) (types.Asset, error) {
	address, err := parseAddress(key+".address", a.Address)
	if err != nil {
		return types.Asset{}, err
	}
	if a.Symbol == "" {
		return types.Asset{}, fmt.Errorf("%s.symbol is required", key)
	}
	return types.Asset{
		ChainID:  chainID,
		Address:  address,
		Decimals: a.Decimals,
		Symbol:   a.Symbol,
		Name:     a.Name,
	}, nil
}

func parseAddress(key, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: %q is not a valid address", key, value)
	}
	return common.HexToAddress(value), nil
}

// RequireSigner reports an error when no private key is configured
func (c *Config) RequireSigner() error {
	if c.PrivateKey == "" {
		return fmt.Errorf("private key not found. Please set PRIVATE_KEY environment variable or private_key in .swap-supply.yaml")
	}
	return nil
}

// Pipeline returns the immutable run configuration
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		InputAsset:   c.Input,
		OutputAsset:  c.Output,
		Router:       c.Router,
		LendingPool:  c.LendingPool,
		FeeTier:      c.FeeTier,
		MinAmountOut: c.MinAmountOut,
		ReferralCode: c.ReferralCode,
		Beneficiary:  c.Beneficiary,
	}
}

// TxURL returns the block explorer link for a transaction hash
func (c *Config) TxURL(hash common.Hash) string {
	if c.ExplorerURL == "" {
		return hash.Hex()
	}
	return c.ExplorerURL + hash.Hex()
}
