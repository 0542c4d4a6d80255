package config

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STELLAR_SIGNER_SEED", keypair.MustRandom().Seed())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "https://horizon-testnet.stellar.org", cfg.HorizonURL)
	assert.Equal(t, "https://soroban-testnet.stellar.org", cfg.SorobanRPC)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, int64(txnbuild.MinBaseFee), cfg.BaseFee)
	assert.Equal(t, "local", cfg.SignerBackend)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STELLAR_NETWORK", "PUBLIC")
	t.Setenv("STELLAR_HORIZON_URL", "https://horizon.example.org")
	t.Setenv("STELLAR_BASE_FEE", "500")
	t.Setenv("STELLAR_SIGNER_BACKEND", "remote")
	t.Setenv("STELLAR_SIGNER_URL", "http://signer:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Network)
	assert.Equal(t, "https://horizon.example.org", cfg.HorizonURL)
	assert.Equal(t, int64(500), cfg.BaseFee)
	assert.Equal(t, "remote", cfg.SignerBackend)
}

func TestLoadRejectsUnknownNetwork(t *testing.T) {
	t.Setenv("STELLAR_NETWORK", "futurenet")
	t.Setenv("STELLAR_SIGNER_SEED", keypair.MustRandom().Seed())

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsFeeBelowMinimum(t *testing.T) {
	t.Setenv("STELLAR_BASE_FEE", "5")
	t.Setenv("STELLAR_SIGNER_SEED", keypair.MustRandom().Seed())

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresSignerMaterial(t *testing.T) {
	t.Setenv("STELLAR_SIGNER_SEED", "")

	// Local backend without a seed.
	_, err := Load()
	assert.Error(t, err)

	// Remote backend without a URL.
	t.Setenv("STELLAR_SIGNER_BACKEND", "remote")
	_, err = Load()
	assert.Error(t, err)
}

func TestPassphrase(t *testing.T) {
	assert.Equal(t, network.TestNetworkPassphrase, Config{Network: "testnet"}.Passphrase())
	assert.Equal(t, network.PublicNetworkPassphrase, Config{Network: "public"}.Passphrase())
}

func TestAddress(t *testing.T) {
	assert.Equal(t, ":8080", Config{Port: "8080"}.Address())
	assert.Equal(t, ":9090", Config{Port: ":9090"}.Address())
}
