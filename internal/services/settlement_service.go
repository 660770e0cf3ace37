package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/client/facilitator"
	"github.com/protocolbanks/x402-api/internal/client/relayer"
	"github.com/protocolbanks/x402-api/internal/constants"
	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/x402"
)

// FacilitatorClient is the settlement interface of the CDP facilitator.
type FacilitatorClient interface {
	Settle(ctx context.Context, payload facilitator.PaymentPayload, requirements facilitator.PaymentRequirements) (*facilitator.SettleResponse, error)
}

// RelayerClient is the submission interface of the fallback relayer.
type RelayerClient interface {
	Submit(ctx context.Context, req relayer.SubmitRequest) (*relayer.SubmitResponse, error)
}

// SupportedFunc reports whether the facilitator settles a chain/token pair.
type SupportedFunc func(chainID int64, tokenAddress string) bool

// SettlementService dispatches signed authorizations for on-chain
// settlement: the zero-fee facilitator first when the pair is supported,
// the fee-charging relayer otherwise. A failure on both paths leaves the
// record pending so the submission can be retried.
type SettlementService struct {
	queries     db.Querier
	authService *AuthorizationService
	facilitator FacilitatorClient
	relayer     RelayerClient
	supported   SupportedFunc
	feeBps      int64
	feeCap      string
	logger      *zap.Logger
	nowFunc     func() int64
}

// SettlementServiceParams contains dependencies for the settlement service
type SettlementServiceParams struct {
	Queries     db.Querier
	AuthService *AuthorizationService
	Facilitator FacilitatorClient // nil when no facilitator is configured
	Relayer     RelayerClient     // nil when no relayer is configured
	Supported   SupportedFunc
	FeeBps      int64
	FeeCap      string // Decimal amount in token units; empty means no cap
}

// NewSettlementService creates a new settlement service
func NewSettlementService(params SettlementServiceParams) *SettlementService {
	supported := params.Supported
	if supported == nil {
		supported = func(int64, string) bool { return false }
	}
	return &SettlementService{
		queries:     params.Queries,
		authService: params.AuthService,
		facilitator: params.Facilitator,
		relayer:     params.Relayer,
		supported:   supported,
		feeBps:      params.FeeBps,
		feeCap:      params.FeeCap,
		logger:      logger.Log,
		nowFunc:     func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the wall clock. Used by tests.
func (s *SettlementService) SetNowFunc(now func() int64) {
	s.nowFunc = now
}

// SettlementResult reports how an authorization was dispatched.
type SettlementResult struct {
	Method          string
	TransactionHash string
	Fee             string
	Status          x402.Status
}

// Submit dispatches a signed, pending authorization. The validity window
// is rechecked immediately before any settlement call because submission
// may happen arbitrarily long after creation.
func (s *SettlementService) Submit(ctx context.Context, userID uuid.UUID, authorizationID string) (*SettlementResult, error) {
	auth, err := s.authService.GetAuthorization(ctx, userID, authorizationID)
	if err != nil {
		return nil, err
	}

	if auth.Status != string(x402.StatusPending) {
		return nil, &x402.InvalidStateTransitionError{From: x402.Status(auth.Status), To: x402.StatusSubmitted}
	}
	if !auth.Signature.Valid {
		return nil, x402.NewValidationError("authorization has not been signed")
	}

	now := s.nowFunc()
	if !x402.IsWithinWindow(auth.ValidAfter, auth.ValidBefore, now) {
		if now > auth.ValidBefore {
			s.expire(ctx, *auth)
			return nil, &x402.AuthorizationExpiredError{ValidBefore: auth.ValidBefore}
		}
		return nil, x402.NewValidationError("authorization is not valid until %d", auth.ValidAfter)
	}

	var facilitatorErr error
	if s.facilitator != nil && s.supported(auth.ChainID, auth.TokenAddress) {
		result, err := s.settleViaFacilitator(ctx, userID, *auth)
		if err == nil {
			return result, nil
		}
		var transition *x402.InvalidStateTransitionError
		var storage *x402.StorageError
		if errors.As(err, &transition) || errors.As(err, &storage) {
			// Both arise only after the facilitator reported success: the
			// transfer is already on-chain and a relayer fallback would
			// double-submit it. Surface the error as-is.
			return nil, err
		}
		facilitatorErr = err
		s.logger.Warn("Facilitator settlement failed, falling back to relayer",
			zap.String("authorization_id", auth.ID),
			zap.Error(err))
	} else {
		facilitatorErr = fmt.Errorf("facilitator does not support chain %d token %s", auth.ChainID, auth.TokenAddress)
	}

	if s.relayer == nil {
		return nil, &x402.SettlementFailureError{
			FacilitatorErr: facilitatorErr,
			RelayerErr:     errors.New("relayer not configured"),
		}
	}

	result, err := s.submitViaRelayer(ctx, userID, *auth)
	if err != nil {
		var transition *x402.InvalidStateTransitionError
		var storage *x402.StorageError
		if errors.As(err, &transition) || errors.As(err, &storage) {
			return nil, err
		}
		// Both paths failed; the record is still pending and retry is safe.
		return nil, &x402.SettlementFailureError{
			FacilitatorErr: facilitatorErr,
			RelayerErr:     err,
		}
	}
	return result, nil
}

// settleViaFacilitator performs synchronous facilitator settlement. On
// success the record moves pending -> settled -> completed in two
// conditional updates.
func (s *SettlementService) settleViaFacilitator(ctx context.Context, userID uuid.UUID, auth db.Authorization) (*SettlementResult, error) {
	network, err := facilitator.NetworkName(auth.ChainID)
	if err != nil {
		return nil, err
	}

	payload := facilitator.PaymentPayload{
		X402Version: 1,
		Scheme:      facilitator.SchemeExact,
		Network:     network,
		Payload: facilitator.ExactEvmPayload{
			Signature: auth.Signature.String,
			Authorization: facilitator.PayloadAuthorization{
				From:        auth.FromAddress,
				To:          auth.ToAddress,
				Value:       auth.AmountBaseUnits,
				ValidAfter:  strconv.FormatInt(auth.ValidAfter, 10),
				ValidBefore: strconv.FormatInt(auth.ValidBefore, 10),
				Nonce:       auth.Nonce,
			},
		},
	}
	requirements := facilitator.PaymentRequirements{
		Scheme:            facilitator.SchemeExact,
		Network:           network,
		Asset:             auth.TokenAddress,
		PayTo:             auth.ToAddress,
		MaxAmountRequired: auth.AmountBaseUnits,
		MaxTimeoutSeconds: int(auth.ValidBefore - s.nowFunc()),
	}

	resp, err := s.facilitator.Settle(ctx, payload, requirements)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("facilitator declined settlement: %s", resp.ErrorReason)
	}

	settled, err := s.transition(ctx, userID, auth.ID, x402.StatusPending, x402.StatusSettled, db.TransitionAuthorizationStatusParams{
		SettlementMethod: pgtype.Text{String: constants.SettlementMethodCDP, Valid: true},
		TransactionHash:  pgtype.Text{String: resp.Transaction, Valid: true},
		RelayerFee:       pgtype.Text{String: "0", Valid: true},
	})
	if err != nil {
		return nil, err
	}
	s.recordSettlementLog(ctx, settled, constants.PaymentLogAuthorizationSettled, resp.Transaction)

	// Facilitator settlement is synchronous finality.
	completed, err := s.transition(ctx, userID, auth.ID, x402.StatusSettled, x402.StatusCompleted, db.TransitionAuthorizationStatusParams{})
	if err != nil {
		return nil, err
	}
	s.recordSettlementLog(ctx, completed, constants.PaymentLogAuthorizationCompleted, resp.Transaction)

	s.logger.Info("Authorization settled via facilitator",
		zap.String("authorization_id", auth.ID),
		zap.String("network", network),
		zap.String("tx_hash", resp.Transaction))

	return &SettlementResult{
		Method:          constants.SettlementMethodCDP,
		TransactionHash: resp.Transaction,
		Fee:             "0",
		Status:          x402.StatusCompleted,
	}, nil
}

// submitViaRelayer submits through the fee-charging relayer. Completion is
// asynchronous: the record moves to submitted and awaits verification.
func (s *SettlementService) submitViaRelayer(ctx context.Context, userID uuid.UUID, auth db.Authorization) (*SettlementResult, error) {
	fee, err := x402.RelayerFee(auth.Amount, s.feeBps, s.feeCap)
	if err != nil {
		return nil, err
	}

	resp, err := s.relayer.Submit(ctx, relayer.SubmitRequest{
		Domain: x402.Domain{
			Name:              auth.TokenName,
			Version:           constants.TokenDomainVersion,
			ChainID:           auth.ChainID,
			VerifyingContract: auth.TokenAddress,
		},
		Message: x402.Message{
			From:        auth.FromAddress,
			To:          auth.ToAddress,
			Value:       auth.AmountBaseUnits,
			ValidAfter:  auth.ValidAfter,
			ValidBefore: auth.ValidBefore,
			Nonce:       auth.Nonce,
		},
		Signature: auth.Signature.String,
	})
	if err != nil {
		return nil, err
	}

	submitted, err := s.transition(ctx, userID, auth.ID, x402.StatusPending, x402.StatusSubmitted, db.TransitionAuthorizationStatusParams{
		SettlementMethod: pgtype.Text{String: constants.SettlementMethodRelayer, Valid: true},
		TransactionHash:  pgtype.Text{String: resp.TransactionHash, Valid: true},
		RelayerFee:       pgtype.Text{String: fee, Valid: true},
		RelayerAddress:   pgtype.Text{String: resp.RelayerAddress, Valid: true},
	})
	if err != nil {
		return nil, err
	}
	s.recordSettlementLog(ctx, submitted, constants.PaymentLogAuthorizationSettled, resp.TransactionHash)

	s.logger.Info("Authorization submitted via relayer",
		zap.String("authorization_id", auth.ID),
		zap.String("tx_hash", resp.TransactionHash),
		zap.String("relayer_fee", fee))

	return &SettlementResult{
		Method:          constants.SettlementMethodRelayer,
		TransactionHash: resp.TransactionHash,
		Fee:             fee,
		Status:          x402.StatusSubmitted,
	}, nil
}

// expire moves a pending authorization to expired. A conditional-update
// conflict means another writer already transitioned the record; that
// outcome is accepted silently.
func (s *SettlementService) expire(ctx context.Context, auth db.Authorization) {
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
	s.recordSettlementLog(ctx, expired, constants.PaymentLogAuthorizationExpired, "")
}

func (s *SettlementService) transition(ctx context.Context, userID uuid.UUID, id string, from, to x402.Status, extra db.TransitionAuthorizationStatusParams) (db.Authorization, error) {
	extra.ID = id
	extra.FromStatus = string(from)
	extra.Status = string(to)

	updated, err := s.queries.TransitionAuthorizationStatus(ctx, extra)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Authorization{}, s.authService.transitionConflict(ctx, userID, id, to)
		}
		return db.Authorization{}, &x402.StorageError{Err: err}
	}
	return updated, nil
}

func (s *SettlementService) recordSettlementLog(ctx context.Context, auth db.Authorization, eventType, txHash string) {
	s.authService.recordLog(ctx, auth, eventType, txHash)
}
