package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/spf13/viper"

	"jup-swap/pkg/logger"
)

const (
	DefaultRPCURL     = "https://api.mainnet-beta.solana.com"
	DefaultCommitment = "confirmed"
	DefaultTimeout    = 30 * time.Second
)

// Config holds the application configuration
type Config struct {
	// BaseURL overrides the Jupiter endpoint. When empty the client picks
	// lite-api.jup.ag, or api.jup.ag if APIKey is set.
	BaseURL       string
	APIKey        string
	RPCURL        string
	PrivateKey    string
	Commitment    string
	SkipPreflight bool
	Timeout       time.Duration
	JournalPath   string
	Log           LogConfig
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level      string
	JSON       bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	return load(viper.GetViper(), "$HOME", ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName(".jup-swap")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Set default values
	v.SetDefault("rpc_url", DefaultRPCURL)
	v.SetDefault("commitment", DefaultCommitment)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)

	// Read from environment variables, e.g. JUP_SWAP_LOG_LEVEL for log.level
	v.SetEnvPrefix("JUP_SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		BaseURL:       v.GetString("base_url"),
		APIKey:        v.GetString("api_key"),
		RPCURL:        v.GetString("rpc_url"),
		PrivateKey:    v.GetString("private_key"),
		Commitment:    v.GetString("commitment"),
		SkipPreflight: v.GetBool("skip_preflight"),
		Timeout:       v.GetDuration("timeout"),
		JournalPath:   v.GetString("journal_path"),
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			JSON:       v.GetBool("log.json"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			Compress:   v.GetBool("log.compress"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that can be checked without a network round trip
func (c *Config) Validate() error {
	switch strings.ToLower(c.Commitment) {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("invalid commitment %q: expected processed, confirmed or finalized", c.Commitment)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// LoggerConfig converts the log section for logger.New
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{
		Level:      c.Log.Level,
		JSON:       c.Log.JSON,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		Compress:   c.Log.Compress,
	}
}

// SigningKey decodes the configured private key into the 64-byte ed25519
// secret key. Both base58 text (as exported by wallets) and the JSON byte
// array written by solana-keygen are accepted.
func SigningKey(cfg *Config) ([]byte, error) {
	raw := strings.TrimSpace(cfg.PrivateKey)
	if raw == "" {
		return nil, fmt.Errorf("private key not configured. Please set JUP_SWAP_PRIVATE_KEY environment variable or add private_key to .jup-swap.yaml")
	}

	var key []byte
	if strings.HasPrefix(raw, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(raw), &ints); err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		key = make([]byte, len(ints))
		for i, n := range ints {
			if n < 0 || n > 255 {
				return nil, fmt.Errorf("invalid private key: byte %d out of range", i)
			}
			key[i] = byte(n)
		}
	} else {
		decoded, err := base58.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		key = decoded
	}

	if len(key) != 64 {
		return nil, fmt.Errorf("invalid private key: got %d bytes, want 64", len(key))
	}
	return key, nil
}
