package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/protocolbanks/x402-api/internal/client/http"
	"github.com/protocolbanks/x402-api/internal/logger"
)

func init() {
	logger.InitLogger("test")
}

func testRetryConfig() *httpclient.RetryConfig {
	return &httpclient.RetryConfig{
		MaxRetries:           2,
		InitialInterval:      time.Millisecond,
		MaxInterval:          5 * time.Millisecond,
		Multiplier:           2.0,
		MaxElapsedTime:       time.Second,
		RetryableStatusCodes: []int{503},
	}
}

func TestClientRetriesResendBody(t *testing.T) {
	var attempts int
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := httpclient.NewClient(
		httpclient.WithBaseURL(server.URL),
		httpclient.WithRetryConfig(testRetryConfig()),
	)

	resp, err := client.Post(context.Background(), "/submit", map[string]string{"hello": "world"})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 2, attempts)
	assert.JSONEq(t, `{"hello":"world"}`, bodies[0])
	// The retried attempt carries the full body again, not a drained reader.
	assert.JSONEq(t, `{"hello":"world"}`, bodies[1])
}

func TestClientRequestOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "x402_abc", r.Header.Get("Idempotency-Key"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := httpclient.NewClient(httpclient.WithBaseURL(server.URL))

	resp, err := client.Get(context.Background(), "/supported",
		httpclient.WithBearerToken("token-123"),
		httpclient.WithHeader("Idempotency-Key", "x402_abc"))
	require.NoError(t, err)
	resp.Body.Close()
}

func TestClientNonRetryableStatus(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad payload"}`))
	}))
	defer server.Close()

	client := httpclient.NewClient(
		httpclient.WithBaseURL(server.URL),
		httpclient.WithRetryConfig(testRetryConfig()),
	)

	_, err := client.Post(context.Background(), "/submit", map[string]string{"hello": "world"})
	var httpErr *httpclient.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, 1, attempts)
}
