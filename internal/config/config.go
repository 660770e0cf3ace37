package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	Stage       string
	Port        string
	DatabaseURL string

	// Facilitator (zero-fee) settlement path.
	FacilitatorURL string
	// FacilitatorAPIKey is sent as a bearer token when present.
	FacilitatorAPIKey string
	// FacilitatorPairs lists the (chainID, tokenAddress) pairs the
	// facilitator settles, as "chainID:tokenAddress" entries.
	FacilitatorPairs []FacilitatorPair

	// Relayer fallback path.
	RelayerURL    string
	RelayerAPIKey string
	RelayerFeeBps int64
	// RelayerFeeCap is a decimal amount in token units; empty means no cap.
	RelayerFeeCap string

	// On-chain verification. RPCURLs maps chain ids onto RPC endpoints.
	ConfirmOnChain bool
	RPCURLs        map[int64]string
}

// FacilitatorPair identifies one chain/token combination eligible for
// facilitator settlement.
type FacilitatorPair struct {
	ChainID      int64
	TokenAddress string
}

const (
	defaultPort          = "8000"
	defaultRelayerFeeBps = 50
)

// Load reads configuration from the environment. DATABASE_URL is the only
// hard requirement; settlement paths degrade gracefully when their
// endpoints are absent.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:             getEnv("STAGE", "dev"),
		Port:              getEnv("API_PORT", defaultPort),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		FacilitatorURL:    os.Getenv("FACILITATOR_URL"),
		FacilitatorAPIKey: os.Getenv("FACILITATOR_API_KEY"),
		RelayerURL:        os.Getenv("RELAYER_URL"),
		RelayerAPIKey:     os.Getenv("RELAYER_API_KEY"),
		RelayerFeeCap:     os.Getenv("X402_RELAYER_FEE_CAP"),
		ConfirmOnChain:    getEnv("X402_CONFIRM_ON_CHAIN", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	bps, err := parseBps(getEnv("X402_RELAYER_FEE_BPS", strconv.Itoa(defaultRelayerFeeBps)))
	if err != nil {
		return nil, err
	}
	cfg.RelayerFeeBps = bps

	pairs, err := parseFacilitatorPairs(os.Getenv("X402_FACILITATOR_NETWORKS"))
	if err != nil {
		return nil, err
	}
	cfg.FacilitatorPairs = pairs

	rpcURLs, err := parseRPCURLs(os.Getenv("X402_RPC_URLS"))
	if err != nil {
		return nil, err
	}
	cfg.RPCURLs = rpcURLs

	if cfg.ConfirmOnChain && len(cfg.RPCURLs) == 0 {
		return nil, fmt.Errorf("X402_CONFIRM_ON_CHAIN requires X402_RPC_URLS")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBps(raw string) (int64, error) {
	bps, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || bps < 0 || bps > 10000 {
		return 0, fmt.Errorf("X402_RELAYER_FEE_BPS must be an integer between 0 and 10000, got %q", raw)
	}
	return bps, nil
}

// parseFacilitatorPairs parses "8453:0x833...,84532:0x036..." entries.
func parseFacilitatorPairs(raw string) ([]FacilitatorPair, error) {
	if raw == "" {
		return nil, nil
	}

	var pairs []FacilitatorPair
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid X402_FACILITATOR_NETWORKS entry %q", entry)
		}
		chainID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id in X402_FACILITATOR_NETWORKS entry %q", entry)
		}
		pairs = append(pairs, FacilitatorPair{
			ChainID:      chainID,
			TokenAddress: strings.ToLower(parts[1]),
		})
	}
	return pairs, nil
}

// parseRPCURLs parses "8453=https://...,1=https://..." entries.
func parseRPCURLs(raw string) (map[int64]string, error) {
	urls := make(map[int64]string)
	if raw == "" {
		return urls, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid X402_RPC_URLS entry %q", entry)
		}
		chainID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id in X402_RPC_URLS entry %q", entry)
		}
		urls[chainID] = parts[1]
	}
	return urls, nil
}

// FacilitatorSupported reports whether the facilitator settles the given
// chain/token pair.
func (c *Config) FacilitatorSupported(chainID int64, tokenAddress string) bool {
	token := strings.ToLower(tokenAddress)
	for _, pair := range c.FacilitatorPairs {
		if pair.ChainID == chainID && pair.TokenAddress == token {
			return true
		}
	}
	return false
}
