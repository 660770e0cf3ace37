package facilitator

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	httpclient "github.com/protocolbanks/x402-api/internal/client/http"
	"github.com/protocolbanks/x402-api/internal/logger"
)

// SchemeExact is the x402 payment scheme for ERC-3009 exact transfers.
const SchemeExact = "exact"

// Client talks to the CDP x402 facilitator. The facilitator settles signed
// transferWithAuthorization payloads on-chain at no fee for supported
// (network, token) pairs.
type Client struct {
	http     *httpclient.Client
	authOpts []httpclient.RequestOption
	logger   *zap.Logger
}

// PayloadAuthorization carries the signed authorization fields. Numeric
// values are decimal strings, matching the facilitator wire format.
type PayloadAuthorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// ExactEvmPayload is the scheme-specific payload for exact EVM transfers.
type ExactEvmPayload struct {
	Signature     string               `json:"signature"`
	Authorization PayloadAuthorization `json:"authorization"`
}

// PaymentPayload is the x402 payment payload submitted for settlement.
type PaymentPayload struct {
	X402Version int             `json:"x402Version"`
	Scheme      string          `json:"scheme"`
	Network     string          `json:"network"`
	Payload     ExactEvmPayload `json:"payload"`
}

// PaymentRequirements describes what the settlement must satisfy.
type PaymentRequirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	Asset             string `json:"asset"`
	PayTo             string `json:"payTo"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
}

// SettleResponse is the facilitator's settlement result.
type SettleResponse struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Network     string `json:"network,omitempty"`
	Payer       string `json:"payer,omitempty"`
}

// SupportedKind identifies one (scheme, network) pair the facilitator can
// settle.
type SupportedKind struct {
	Scheme  string `json:"scheme"`
	Network string `json:"network"`
}

// SupportedResponse wraps the facilitator's supported-kinds listing.
type SupportedResponse struct {
	Kinds []SupportedKind `json:"kinds"`
}

type settleRequest struct {
	X402Version         int                 `json:"x402Version"`
	PaymentPayload      PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements PaymentRequirements `json:"paymentRequirements"`
}

// NewClient creates a facilitator client for the given base URL. A
// non-empty bearerToken is sent as CDP API authentication.
func NewClient(baseURL, bearerToken string) *Client {
	var authOpts []httpclient.RequestOption
	if bearerToken != "" {
		authOpts = append(authOpts, httpclient.WithBearerToken(bearerToken))
	}
	return &Client{
		http: httpclient.NewClient(
			httpclient.WithBaseURL(baseURL),
			httpclient.WithTimeout(20*time.Second),
		),
		authOpts: authOpts,
		logger:   logger.Log,
	}
}

// Settle submits a signed payment payload for synchronous settlement. A
// response with Success false is returned without error; transport and
// protocol failures are returned as errors.
func (c *Client) Settle(ctx context.Context, payload PaymentPayload, requirements PaymentRequirements) (*SettleResponse, error) {
	req := settleRequest{
		X402Version:         payload.X402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirements,
	}

	resp, err := c.http.Post(ctx, "/settle", req, c.authOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "facilitator settle request failed")
	}

	var result SettleResponse
	if err := c.http.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode facilitator settle response")
	}

	if !result.Success {
		c.logger.Warn("Facilitator declined settlement",
			zap.String("network", payload.Network),
			zap.String("reason", result.ErrorReason))
	}

	return &result, nil
}

// Supported lists the (scheme, network) pairs the facilitator settles.
func (c *Client) Supported(ctx context.Context) ([]SupportedKind, error) {
	resp, err := c.http.Get(ctx, "/supported", c.authOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "facilitator supported request failed")
	}

	var result SupportedResponse
	if err := c.http.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode facilitator supported response")
	}

	return result.Kinds, nil
}

// NetworkName maps an EVM chain id onto the facilitator's network
// identifier. Unknown chains return an error so callers fall back to the
// relayer path instead of submitting a payload the facilitator rejects.
func NetworkName(chainID int64) (string, error) {
	switch chainID {
	case 1:
		return "ethereum", nil
	case 8453:
		return "base", nil
	case 84532:
		return "base-sepolia", nil
	case 137:
		return "polygon", nil
	case 43114:
		return "avalanche", nil
	default:
		return "", fmt.Errorf("no facilitator network for chain id %d", chainID)
	}
}
