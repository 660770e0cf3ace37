package x402_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protocolbanks/x402-api/internal/x402"
)

const (
	testToken = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	testFrom  = "0x1111111111111111111111111111111111111111"
	testTo    = "0x2222222222222222222222222222222222222222"
)

func testTypedData(t *testing.T) (x402.Domain, x402.Message) {
	t.Helper()

	domain, err := x402.BuildDomain("USD Coin", "2", 8453, testToken)
	require.NoError(t, err)

	message, err := x402.BuildMessage(testFrom, testTo, "1000000", 100, 3700, x402.EncodeNonce(1))
	require.NoError(t, err)

	return domain, message
}

func TestBuildDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		version  string
		chainID  int64
		contract string
		wantErr  bool
	}{
		{name: "valid", domain: "USD Coin", version: "2", chainID: 8453, contract: testToken},
		{name: "missing name", domain: "", version: "2", chainID: 8453, contract: testToken, wantErr: true},
		{name: "missing version", domain: "USD Coin", version: "", chainID: 8453, contract: testToken, wantErr: true},
		{name: "zero chain id", domain: "USD Coin", version: "2", chainID: 0, contract: testToken, wantErr: true},
		{name: "bad contract", domain: "USD Coin", version: "2", chainID: 8453, contract: "0x123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain, err := x402.BuildDomain(tt.domain, tt.version, tt.chainID, tt.contract)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testToken, domain.VerifyingContract)
		})
	}
}

func TestBuildMessage(t *testing.T) {
	nonce := x402.EncodeNonce(7)

	tests := []struct {
		name        string
		from        string
		to          string
		value       string
		validAfter  int64
		validBefore int64
		nonce       string
		wantErr     bool
	}{
		{name: "valid", from: testFrom, to: testTo, value: "1000000", validAfter: 100, validBefore: 200, nonce: nonce},
		{name: "bad from", from: "nobody", to: testTo, value: "1000000", validAfter: 100, validBefore: 200, nonce: nonce, wantErr: true},
		{name: "bad to", from: testFrom, to: "nobody", value: "1000000", validAfter: 100, validBefore: 200, nonce: nonce, wantErr: true},
		{name: "bad value", from: testFrom, to: testTo, value: "one million", validAfter: 100, validBefore: 200, nonce: nonce, wantErr: true},
		{name: "inverted window", from: testFrom, to: testTo, value: "1000000", validAfter: 200, validBefore: 100, nonce: nonce, wantErr: true},
		{name: "short nonce", from: testFrom, to: testTo, value: "1000000", validAfter: 100, validBefore: 200, nonce: "0x01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x402.BuildMessage(tt.from, tt.to, tt.value, tt.validAfter, tt.validBefore, tt.nonce)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashTypedDataIsStable(t *testing.T) {
	domain, message := testTypedData(t)

	first, err := x402.HashTypedData(x402.TypedData(domain, message))
	require.NoError(t, err)
	second, err := x402.HashTypedData(x402.TypedData(domain, message))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Any field change must produce a different signing hash.
	message.Value = "2000000"
	changed, err := x402.HashTypedData(x402.TypedData(domain, message))
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestRecoverSignerRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signerAddr := crypto.PubkeyToAddress(key.PublicKey)

	domain, message := testTypedData(t)
	message.From = signerAddr.Hex()

	td := x402.TypedData(domain, message)
	hash, err := x402.HashTypedData(td)
	require.NoError(t, err)

	sig, err := crypto.Sign(hash.Bytes(), key)
	require.NoError(t, err)

	// Wallets report v as 27/28.
	sig[64] += 27

	recovered, err := x402.RecoverSigner(td, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, signerAddr, recovered)
}

func TestRecoverSignerRejectsWrongSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	domain, message := testTypedData(t)
	td := x402.TypedData(domain, message)

	hash, err := x402.HashTypedData(td)
	require.NoError(t, err)

	sig, err := crypto.Sign(hash.Bytes(), key)
	require.NoError(t, err)

	recovered, err := x402.RecoverSigner(td, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.NotEqual(t, message.From, recovered.Hex())
}

func TestIsValidSignatureFormat(t *testing.T) {
	sig := "0x" + repeatHex("ab", 65)
	assert.True(t, x402.IsValidSignatureFormat(sig))

	assert.False(t, x402.IsValidSignatureFormat(""))
	assert.False(t, x402.IsValidSignatureFormat("0x1234"))
	assert.False(t, x402.IsValidSignatureFormat(repeatHex("ab", 66)))
	assert.False(t, x402.IsValidSignatureFormat("0x"+repeatHex("zz", 65)))
}

func TestIsValidTxHash(t *testing.T) {
	assert.True(t, x402.IsValidTxHash("0x"+repeatHex("cd", 32)))
	assert.False(t, x402.IsValidTxHash("0x"+repeatHex("cd", 31)))
	assert.False(t, x402.IsValidTxHash(repeatHex("cd", 33)))
	assert.False(t, x402.IsValidTxHash("not-a-hash"))
}

func repeatHex(pair string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += pair
	}
	return out
}
