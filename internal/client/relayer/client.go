package relayer

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	httpclient "github.com/protocolbanks/x402-api/internal/client/http"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/x402"
)

// Client talks to the fallback relayer. The relayer broadcasts signed
// transferWithAuthorization calls for a basis-point fee and settles
// asynchronously; completion is confirmed through the verification
// endpoint.
type Client struct {
	http   *httpclient.Client
	logger *zap.Logger
}

// SubmitRequest carries the signed authorization to the relayer.
type SubmitRequest struct {
	Domain    x402.Domain  `json:"domain"`
	Message   x402.Message `json:"message"`
	Signature string       `json:"signature"`
}

// SubmitResponse is the relayer's acknowledgement of a broadcast.
type SubmitResponse struct {
	RelayerAddress  string `json:"relayerAddress"`
	TransactionHash string `json:"txHash"`
}

// NewClient creates a relayer client for the given base URL. The API key
// is sent on every request. Retries are restricted to statuses that
// guarantee the relayer never accepted the submission.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http: httpclient.NewClient(
			httpclient.WithBaseURL(baseURL),
			httpclient.WithTimeout(20*time.Second),
			httpclient.WithDefaultHeader("x-api-key", apiKey),
			httpclient.WithRetryConfig(&httpclient.RetryConfig{
				MaxRetries:           2,
				InitialInterval:      250 * time.Millisecond,
				MaxInterval:          2 * time.Second,
				Multiplier:           2.0,
				MaxElapsedTime:       15 * time.Second,
				RetryableStatusCodes: []int{http.StatusTooManyRequests, http.StatusServiceUnavailable},
			}),
		),
		logger: logger.Log,
	}
}

// Submit sends a signed authorization for relayed execution. The EIP-3009
// nonce doubles as the idempotency key: the relayer deduplicates repeated
// submissions of the same authorization.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	resp, err := c.http.Post(ctx, "/x402/submit", req,
		httpclient.WithHeader("Idempotency-Key", req.Message.Nonce))
	if err != nil {
		return nil, errors.Wrap(err, "relayer submit request failed")
	}

	var result SubmitResponse
	if err := c.http.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode relayer submit response")
	}

	if result.TransactionHash == "" {
		return nil, errors.New("relayer returned no transaction hash")
	}

	c.logger.Info("Relayer accepted authorization",
		zap.String("relayer_address", result.RelayerAddress),
		zap.String("tx_hash", result.TransactionHash))

	return &result, nil
}
