package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/constants"
	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/x402"
)

// ReceiptChecker confirms transaction execution against a chain RPC node.
type ReceiptChecker interface {
	ConfirmTransaction(ctx context.Context, chainID int64, txHash string) (bool, error)
}

// VerificationService closes the relayer settlement loop: it records the
// on-chain transaction hash reported for a submitted authorization and
// moves the record to completed.
type VerificationService struct {
	queries     db.Querier
	authService *AuthorizationService
	checker     ReceiptChecker // nil disables on-chain confirmation
	logger      *zap.Logger
	nowFunc     func() int64
}

// NewVerificationService creates a new verification service. checker may
// be nil, in which case the reported hash is trusted without an RPC check.
func NewVerificationService(queries db.Querier, authService *AuthorizationService, checker ReceiptChecker) *VerificationService {
	return &VerificationService{
		queries:     queries,
		authService: authService,
		checker:     checker,
		logger:      logger.Log,
		nowFunc:     func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the wall clock. Used by tests.
func (s *VerificationService) SetNowFunc(now func() int64) {
	s.nowFunc = now
}

// VerificationResult reports the outcome of a verification attempt.
type VerificationResult struct {
	Verified        bool
	Status          x402.Status
	TransactionHash string
}

// Verify marks a submitted or settled authorization completed under the
// given transaction hash. Re-verifying a completed record with the same
// hash is an idempotent success.
func (s *VerificationService) Verify(ctx context.Context, userID uuid.UUID, authorizationID, txHash string) (*VerificationResult, error) {
	if !x402.IsValidTxHash(txHash) {
		return nil, x402.NewValidationError("transaction hash is not a 32-byte hex value")
	}

	auth, err := s.authService.GetAuthorization(ctx, userID, authorizationID)
	if err != nil {
		return nil, err
	}

	if auth.Status == string(x402.StatusCompleted) {
		if auth.TransactionHash.Valid && strings.EqualFold(auth.TransactionHash.String, txHash) {
			return &VerificationResult{
				Verified:        true,
				Status:          x402.StatusCompleted,
				TransactionHash: auth.TransactionHash.String,
			}, nil
		}
		return nil, x402.NewValidationError("authorization completed under a different transaction hash")
	}

	// A closed window expires any record the state machine still allows to
	// expire (pending or submitted). Settled records are excluded: the
	// transfer already executed on-chain and only completion remains.
	if s.nowFunc() > auth.ValidBefore && x402.CheckTransition(x402.Status(auth.Status), x402.StatusExpired) == nil {
		s.expireStale(ctx, *auth)
		return nil, &x402.AuthorizationExpiredError{ValidBefore: auth.ValidBefore}
	}

	if err := x402.CheckTransition(x402.Status(auth.Status), x402.StatusCompleted); err != nil {
		return nil, err
	}

	if s.checker != nil {
		confirmed, err := s.checker.ConfirmTransaction(ctx, auth.ChainID, txHash)
		if err != nil {
			return nil, x402.NewValidationError("could not confirm transaction %s: %v", txHash, err)
		}
		if !confirmed {
			return nil, x402.NewValidationError("transaction %s is not confirmed on chain %d", txHash, auth.ChainID)
		}
	}

	updated, err := s.queries.TransitionAuthorizationStatus(ctx, db.TransitionAuthorizationStatusParams{
		ID:              authorizationID,
		FromStatus:      auth.Status,
		Status:          string(x402.StatusCompleted),
		TransactionHash: pgtype.Text{String: txHash, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.authService.transitionConflict(ctx, userID, authorizationID, x402.StatusCompleted)
		}
		return nil, &x402.StorageError{Err: err}
	}

	s.authService.recordLog(ctx, updated, constants.PaymentLogAuthorizationCompleted, txHash)

	s.logger.Info("Authorization verified",
		zap.String("authorization_id", authorizationID),
		zap.String("tx_hash", txHash))

	return &VerificationResult{
		Verified:        true,
		Status:          x402.StatusCompleted,
		TransactionHash: txHash,
	}, nil
}

// expireStale moves an authorization whose window has closed to expired.
// A conditional-update conflict means another writer got there first and
// is accepted silently.
func (s *VerificationService) expireStale(ctx context.Context, auth db.Authorization) {
	expired, err := s.queries.TransitionAuthorizationStatus(ctx, db.TransitionAuthorizationStatusParams{
		ID:         auth.ID,
		FromStatus: auth.Status,
		Status:     string(x402.StatusExpired),
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("Failed to expire authorization",
				zap.String("authorization_id", auth.ID),
				zap.Error(err))
		}
		return
	}
	s.authService.recordLog(ctx, expired, constants.PaymentLogAuthorizationExpired, "")
}
