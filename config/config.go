package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
)

// Config holds application runtime configuration loaded from
// environment variables.
type Config struct {
	Network      string
	HorizonURL   string
	SorobanRPC   string
	FriendbotURL string
	RedisURL     string
	Port         string
	LogLevel     string
	BaseFee      int64

	// Signer backend selection: "local" or "remote".
	SignerBackend string
	// Secret seed for the local backend.
	SignerSeed string
	// Base URL of the remote signer daemon.
	SignerURL string
}

// Load reads configuration from the environment with testnet defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STELLAR")
	v.AutomaticEnv()

	v.SetDefault("NETWORK", "testnet")
	v.SetDefault("HORIZON_URL", "https://horizon-testnet.stellar.org")
	v.SetDefault("SOROBAN_RPC_URL", "https://soroban-testnet.stellar.org")
	v.SetDefault("FRIENDBOT_URL", "https://friendbot.stellar.org")
	v.SetDefault("REDIS_URL", "redis://localhost:6379")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BASE_FEE", txnbuild.MinBaseFee)
	v.SetDefault("SIGNER_BACKEND", "local")

	cfg := Config{
		Network:       strings.ToLower(v.GetString("NETWORK")),
		HorizonURL:    v.GetString("HORIZON_URL"),
		SorobanRPC:    v.GetString("SOROBAN_RPC_URL"),
		FriendbotURL:  v.GetString("FRIENDBOT_URL"),
		RedisURL:      v.GetString("REDIS_URL"),
		Port:          v.GetString("PORT"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		BaseFee:       v.GetInt64("BASE_FEE"),
		SignerBackend: strings.ToLower(v.GetString("SIGNER_BACKEND")),
		SignerSeed:    v.GetString("SIGNER_SEED"),
		SignerURL:     v.GetString("SIGNER_URL"),
	}

	if cfg.Network != "testnet" && cfg.Network != "public" {
		return Config{}, fmt.Errorf("unsupported network %q", cfg.Network)
	}
	if cfg.BaseFee < txnbuild.MinBaseFee {
		return Config{}, fmt.Errorf("base fee %d below network minimum %d", cfg.BaseFee, txnbuild.MinBaseFee)
	}
	switch cfg.SignerBackend {
	case "local":
		if cfg.SignerSeed == "" {
			return Config{}, fmt.Errorf("STELLAR_SIGNER_SEED must be set for the local signer backend")
		}
	case "remote":
		if cfg.SignerURL == "" {
			return Config{}, fmt.Errorf("STELLAR_SIGNER_URL must be set for the remote signer backend")
		}
	default:
		return Config{}, fmt.Errorf("unsupported signer backend %q", cfg.SignerBackend)
	}

	return cfg, nil
}

// Passphrase returns the network passphrase for the configured network.
func (c Config) Passphrase() string {
	if c.Network == "testnet" {
		return network.TestNetworkPassphrase
	}
	return network.PublicNetworkPassphrase
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
