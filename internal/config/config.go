package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	GatewayAddress    string
	GatewayAPIKey     string
	Currency          string
	PublicBaseURL     string
	JWTSecret         string
	TokenTTL          time.Duration
	BcryptCost        int
	ShutdownTimeout   time.Duration
	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
	ReconcileBatch    int
	WorkerPoolSize    int
	SlipDir           string
	SlipBaseURL       string
	SlipMaxBytes      int64
	SlipPriceCheck    bool
	SMTPAddress       string
	SMTPUsername      string
	SMTPPassword      string
	MailFrom          string
	Flags             Flags
}

// Flags is the feature switch snapshot handed to request handling.
type Flags struct {
	MaintenanceMode     bool
	RegistrationEnabled bool
}

// Args are the raw command line arguments the configuration is parsed from.
type Args []string

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultCurrency        = "thb"
	defaultPublicBaseURL   = "http://localhost:8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultReconcileGrace  = 2 * time.Minute
	defaultReconcileBatch  = 32
	defaultWorkerPoolSize  = 4
	defaultSlipDir         = "./data/slips"
	defaultSlipBaseURL     = "/static/slips"
	defaultSlipMaxBytes    = 5 << 20
	defaultMailFrom        = "no-reply@digistore.local"
)

// Load parses configuration from flags and environment variables.
// Variables from a .env file in the working directory are applied first.
// A missing .env is fine; an unreadable or malformed one is an error.
func Load(args Args) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(args, os.LookupEnv)
}

// DefaultSecret reports whether tokens are signed with the built-in secret.
func (c *Config) DefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:    getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewayAPIKey:     getString(lookup, "GATEWAY_API_KEY", ""),
		Currency:          getString(lookup, "GATEWAY_CURRENCY", defaultCurrency),
		PublicBaseURL:     getString(lookup, "PUBLIC_BASE_URL", defaultPublicBaseURL),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:          getDuration(lookup, "AUTH_TOKEN_TTL", defaultTokenTTL),
		BcryptCost:        getInt(lookup, "BCRYPT_COST", 0),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		ReconcileInterval: getDuration(lookup, "RECONCILE_INTERVAL", 0),
		ReconcileGrace:    getDuration(lookup, "RECONCILE_GRACE", defaultReconcileGrace),
		ReconcileBatch:    getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		SlipDir:           getString(lookup, "SLIP_DIR", defaultSlipDir),
		SlipBaseURL:       getString(lookup, "SLIP_BASE_URL", defaultSlipBaseURL),
		SlipMaxBytes:      int64(getInt(lookup, "SLIP_MAX_BYTES", defaultSlipMaxBytes)),
		SlipPriceCheck:    getBool(lookup, "SLIP_PRICE_CHECK", false),
		SMTPAddress:       getString(lookup, "SMTP_ADDRESS", ""),
		SMTPUsername:      getString(lookup, "SMTP_USERNAME", ""),
		SMTPPassword:      getString(lookup, "SMTP_PASSWORD", ""),
		MailFrom:          getString(lookup, "MAIL_FROM", defaultMailFrom),
		Flags: Flags{
			MaintenanceMode:     getBool(lookup, "MAINTENANCE_MODE", false),
			RegistrationEnabled: getBool(lookup, "REGISTRATION_ENABLED", true),
		},
	}

	fs := flag.NewFlagSet("digistore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		reconcileIntervalStr = cfg.ReconcileInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "Externally reachable base URL")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum pending checkouts per reconcile batch")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between pending checkout sweeps, 0 disables")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.SlipDir, "slip-dir", cfg.SlipDir, "Directory for uploaded payment slips")
	fs.BoolVar(&cfg.Flags.MaintenanceMode, "maintenance", cfg.Flags.MaintenanceMode, "Reject customer traffic")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.ReconcileInterval < 0 {
		cfg.ReconcileInterval = 0
	}

	if cfg.ReconcileGrace <= 0 {
		cfg.ReconcileGrace = defaultReconcileGrace
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.SlipMaxBytes <= 0 {
		cfg.SlipMaxBytes = defaultSlipMaxBytes
	}

	cfg.Currency = strings.ToLower(cfg.Currency)
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
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

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
