package facilitator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protocolbanks/x402-api/internal/client/facilitator"
	"github.com/protocolbanks/x402-api/internal/logger"
)

func init() {
	logger.InitLogger("test")
}

func testPayload() (facilitator.PaymentPayload, facilitator.PaymentRequirements) {
	payload := facilitator.PaymentPayload{
		X402Version: 1,
		Scheme:      facilitator.SchemeExact,
		Network:     "base",
		Payload: facilitator.ExactEvmPayload{
			Signature: "0xsig",
			Authorization: facilitator.PayloadAuthorization{
				From:        "0x1111111111111111111111111111111111111111",
				To:          "0x2222222222222222222222222222222222222222",
				Value:       "50000000",
				ValidAfter:  "100",
				ValidBefore: "3700",
				Nonce:       "0x0000000000000000000000000000000000000000000000000000000000000001",
			},
		},
	}
	requirements := facilitator.PaymentRequirements{
		Scheme:            facilitator.SchemeExact,
		Network:           "base",
		Asset:             "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		PayTo:             "0x2222222222222222222222222222222222222222",
		MaxAmountRequired: "50000000",
		MaxTimeoutSeconds: 3600,
	}
	return payload, requirements
}

func TestClientSettle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/settle", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 1, body["x402Version"])
		assert.Contains(t, body, "paymentPayload")
		assert.Contains(t, body, "paymentRequirements")

		json.NewEncoder(w).Encode(facilitator.SettleResponse{
			Success:     true,
			Transaction: "0xabc",
			Network:     "base",
		})
	}))
	defer server.Close()

	client := facilitator.NewClient(server.URL, "")
	payload, requirements := testPayload()

	resp, err := client.Settle(context.Background(), payload, requirements)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "0xabc", resp.Transaction)
}

func TestClientSettleDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(facilitator.SettleResponse{
			Success:     false,
			ErrorReason: "insufficient_funds",
		})
	}))
	defer server.Close()

	client := facilitator.NewClient(server.URL, "")
	payload, requirements := testPayload()

	resp, err := client.Settle(context.Background(), payload, requirements)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "insufficient_funds", resp.ErrorReason)
}

func TestClientSupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/supported", r.URL.Path)
		json.NewEncoder(w).Encode(facilitator.SupportedResponse{
			Kinds: []facilitator.SupportedKind{
				{Scheme: "exact", Network: "base"},
				{Scheme: "exact", Network: "base-sepolia"},
			},
		})
	}))
	defer server.Close()

	client := facilitator.NewClient(server.URL, "")
	kinds, err := client.Supported(context.Background())
	require.NoError(t, err)
	require.Len(t, kinds, 2)
	assert.Equal(t, "base", kinds[0].Network)
}

func TestClientBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cdp-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(facilitator.SupportedResponse{})
	}))
	defer server.Close()

	client := facilitator.NewClient(server.URL, "cdp-token")
	_, err := client.Supported(context.Background())
	require.NoError(t, err)
}

func TestNetworkName(t *testing.T) {
	tests := []struct {
		chainID int64
		want    string
		wantErr bool
	}{
		{chainID: 1, want: "ethereum"},
		{chainID: 8453, want: "base"},
		{chainID: 84532, want: "base-sepolia"},
		{chainID: 137, want: "polygon"},
		{chainID: 43114, want: "avalanche"},
		{chainID: 999999, wantErr: true},
	}

	for _, tt := range tests {
		got, err := facilitator.NetworkName(tt.chainID)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
