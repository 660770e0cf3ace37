package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protocolbanks/x402-api/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/x402")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.Stage)
		assert.Equal(t, "8000", cfg.Port)
		assert.Equal(t, int64(50), cfg.RelayerFeeBps)
		assert.False(t, cfg.ConfirmOnChain)
		assert.Empty(t, cfg.FacilitatorPairs)
	})

	t.Run("parses facilitator pairs", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/x402")
		t.Setenv("FACILITATOR_API_KEY", "cdp-token")
		t.Setenv("X402_FACILITATOR_NETWORKS", "8453:0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913, 84532:0x036CbD53842c5426634e7929541eC2318f3dCF7e")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.Len(t, cfg.FacilitatorPairs, 2)
		assert.Equal(t, int64(8453), cfg.FacilitatorPairs[0].ChainID)
		assert.Equal(t, "cdp-token", cfg.FacilitatorAPIKey)

		assert.True(t, cfg.FacilitatorSupported(8453, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"))
		assert.True(t, cfg.FacilitatorSupported(8453, "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"))
		assert.False(t, cfg.FacilitatorSupported(1, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"))
	})

	t.Run("rejects malformed facilitator entries", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/x402")
		t.Setenv("X402_FACILITATOR_NETWORKS", "base-0x833")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range fee bps", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/x402")
		t.Setenv("X402_RELAYER_FEE_BPS", "20000")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("parses rpc urls", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/x402")
		t.Setenv("X402_RPC_URLS", "8453=https://base.example.org,1=https://eth.example.org")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "https://base.example.org", cfg.RPCURLs[8453])
		assert.Equal(t, "https://eth.example.org", cfg.RPCURLs[1])
	})

	t.Run("on-chain confirmation requires rpc urls", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/x402")
		t.Setenv("X402_CONFIRM_ON_CHAIN", "true")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
