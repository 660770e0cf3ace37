package x402_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protocolbanks/x402-api/internal/x402"
)

func TestEncodeNonce(t *testing.T) {
	nonce := x402.EncodeNonce(1)
	assert.Len(t, nonce, 66)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001", nonce)

	// Distinct counters must encode to distinct nonces.
	assert.NotEqual(t, x402.EncodeNonce(1), x402.EncodeNonce(2))
}

func TestDecodeNonce(t *testing.T) {
	for _, counter := range []int64{1, 42, 1 << 40} {
		decoded, decodeErr := x402.DecodeNonce(x402.EncodeNonce(counter))
		require.NoError(t, decodeErr)
		assert.Equal(t, counter, decoded)
	}

	_, err := x402.DecodeNonce("0x01")
	assert.Error(t, err)
	_, err = x402.DecodeNonce("not hex")
	assert.Error(t, err)
}

func TestNewAuthorizationID(t *testing.T) {
	id := x402.NewAuthorizationID()
	assert.True(t, strings.HasPrefix(id, "x402_"))
	assert.Len(t, id, len("x402_")+32)
	assert.NotEqual(t, id, x402.NewAuthorizationID())
}
