package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	WalletRPCAddress    string
	RecipientAddress    string
	StableTokenAddress  string
	ProjectTokenAddress string
	ProjectTokenRate    decimal.Decimal
	SessionTTL          time.Duration
	SweepInterval       time.Duration
	SweepBatch          int
	WorkerPoolSize      int
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress = ":8080"
	// USDC contract address, well known and chain specific.
	defaultStableTokenAddress = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	// USD price of one WFT. A single global rate, not live-fetched.
	defaultProjectTokenRate = "0.00019856045123770627"
	defaultSessionTTL       = 24 * time.Hour
	defaultSweepInterval    = 5 * time.Minute
	defaultSweepBatch       = 32
	defaultWorkerPoolSize   = 4
	defaultShutdownTimeout  = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		WalletRPCAddress:    getString(lookup, "WALLET_RPC_ADDRESS", ""),
		RecipientAddress:    getString(lookup, "RECIPIENT_ADDRESS", ""),
		StableTokenAddress:  getString(lookup, "STABLE_TOKEN_ADDRESS", defaultStableTokenAddress),
		ProjectTokenAddress: getString(lookup, "PROJECT_TOKEN_ADDRESS", ""),
		SessionTTL:          getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		SweepInterval:       getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatch:          getInt(lookup, "SWEEP_BATCH", defaultSweepBatch),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	rateStr := getString(lookup, "PROJECT_TOKEN_RATE", defaultProjectTokenRate)

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sessionTTLStr      = cfg.SessionTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.WalletRPCAddress, "w", cfg.WalletRPCAddress, "Wallet bridge JSON-RPC URL")
	fs.StringVar(&cfg.RecipientAddress, "recipient", cfg.RecipientAddress, "Merchant wallet address")
	fs.StringVar(&cfg.StableTokenAddress, "stable-token", cfg.StableTokenAddress, "Stable token contract address")
	fs.StringVar(&cfg.ProjectTokenAddress, "project-token", cfg.ProjectTokenAddress, "Project token contract address")
	fs.StringVar(&rateStr, "project-token-rate", rateStr, "USD price of one project token")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Checkout session lifetime")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expired session sweeps")
	fs.IntVar(&cfg.SweepBatch, "sweep-batch", cfg.SweepBatch, "Maximum sessions per sweep batch")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweep workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.ProjectTokenRate, err = decimal.NewFromString(rateStr); err != nil {
		return nil, fmt.Errorf("invalid project token rate: %w", err)
	}

	if !cfg.ProjectTokenRate.IsPositive() {
		return nil, fmt.Errorf("project token rate must be positive")
	}

	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = defaultSweepBatch
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.RecipientAddress == "" {
		return nil, fmt.Errorf("recipient address must be provided")
	}

	if cfg.ProjectTokenAddress == "" {
		return nil, fmt.Errorf("project token address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
