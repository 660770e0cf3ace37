package services

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/x402"
)

// NonceService issues strictly increasing transfer-authorization nonces.
// Each (user, token, chain) tuple has its own durable counter; the
// increment is a single atomic statement in the store, so concurrent
// callers always receive distinct values.
type NonceService struct {
	queries db.Querier
	logger  *zap.Logger
}

// NewNonceService creates a new nonce service
func NewNonceService(queries db.Querier) *NonceService {
	return &NonceService{
		queries: queries,
		logger:  logger.Log,
	}
}

// NextNonce returns the next counter value and its bytes32 encoding for
// the given key. On storage failure no nonce is issued: fabricating one
// locally would reopen the replay window the counter exists to close.
func (s *NonceService) NextNonce(ctx context.Context, userID uuid.UUID, tokenAddress string, chainID int64) (int64, string, error) {
	if userID == uuid.Nil {
		return 0, "", x402.NewValidationError("user id is required")
	}
	if !common.IsHexAddress(tokenAddress) {
		return 0, "", x402.NewValidationError("token address %q is not a valid address", tokenAddress)
	}
	if chainID <= 0 {
		return 0, "", x402.NewValidationError("chain id must be positive, got %d", chainID)
	}

	counter, err := s.queries.NextAuthorizationNonce(ctx, db.NextAuthorizationNonceParams{
		UserID:       userID,
		TokenAddress: common.HexToAddress(tokenAddress).Hex(),
		ChainID:      chainID,
	})
	if err != nil {
		s.logger.Error("Failed to advance nonce counter",
			zap.String("user_id", userID.String()),
			zap.String("token_address", tokenAddress),
			zap.Int64("chain_id", chainID),
			zap.Error(err))
		return 0, "", &x402.StorageError{Err: err}
	}

	return counter, x402.EncodeNonce(counter), nil
}
