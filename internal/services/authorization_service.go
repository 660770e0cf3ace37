package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/constants"
	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/x402"
)

// AuthorizationService owns the authorization lifecycle up to settlement:
// creation, signature attachment, reads and cancellation. All operations
// are scoped to the owning user.
type AuthorizationService struct {
	queries      db.Querier
	nonceService *NonceService
	logger       *zap.Logger
	nowFunc      func() int64
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(queries db.Querier, nonceService *NonceService) *AuthorizationService {
	return &AuthorizationService{
		queries:      queries,
		nonceService: nonceService,
		logger:       logger.Log,
		nowFunc:      func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the wall clock. Used by tests.
func (s *AuthorizationService) SetNowFunc(now func() int64) {
	s.nowFunc = now
}

// CreateAuthorizationParams contains parameters for creating an authorization
type CreateAuthorizationParams struct {
	UserID        uuid.UUID
	TokenAddress  string
	TokenName     string
	TokenDecimals int32
	ChainID       int64
	From          string
	To            string
	Amount        string // Decimal as string, token units
	ValidFor      int64  // Seconds; 0 selects the default validity
}

// CreatedAuthorization pairs the stored record with the typed data the
// wallet must sign.
type CreatedAuthorization struct {
	Authorization db.Authorization
	TypedData     apitypes.TypedData
}

// CreateAuthorization issues a nonce, builds the EIP-712 payload and
// persists the authorization in pending status.
func (s *AuthorizationService) CreateAuthorization(ctx context.Context, params CreateAuthorizationParams) (*CreatedAuthorization, error) {
	if params.UserID == uuid.Nil {
		return nil, x402.NewValidationError("user id is required")
	}
	if !common.IsHexAddress(params.From) {
		return nil, x402.NewValidationError("from %q is not a valid address", params.From)
	}
	if !common.IsHexAddress(params.To) {
		return nil, x402.NewValidationError("to %q is not a valid address", params.To)
	}
	if params.TokenName == "" {
		return nil, x402.NewValidationError("token name is required")
	}

	validFor := params.ValidFor
	if validFor == 0 {
		validFor = constants.DefaultValiditySeconds
	}
	if validFor < constants.MinValiditySeconds || validFor > constants.MaxValiditySeconds {
		return nil, x402.NewValidationError("validFor must be between %d and %d seconds, got %d",
			constants.MinValiditySeconds, constants.MaxValiditySeconds, params.ValidFor)
	}

	value, err := x402.ParseUnits(params.Amount, int(params.TokenDecimals))
	if err != nil {
		return nil, err
	}

	counter, nonce, err := s.nonceService.NextNonce(ctx, params.UserID, params.TokenAddress, params.ChainID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	validAfter := now
	validBefore := now + validFor

	domain, err := x402.BuildDomain(params.TokenName, constants.TokenDomainVersion, params.ChainID, params.TokenAddress)
	if err != nil {
		return nil, err
	}
	message, err := x402.BuildMessage(params.From, params.To, value, validAfter, validBefore, nonce)
	if err != nil {
		return nil, err
	}

	auth, err := s.queries.CreateAuthorization(ctx, db.CreateAuthorizationParams{
		ID:              x402.NewAuthorizationID(),
		UserID:          params.UserID,
		TokenAddress:    domain.VerifyingContract,
		TokenName:       params.TokenName,
		TokenDecimals:   params.TokenDecimals,
		ChainID:         params.ChainID,
		FromAddress:     message.From,
		ToAddress:       message.To,
		Amount:          params.Amount,
		AmountBaseUnits: value,
		Nonce:           nonce,
		NonceCounter:    counter,
		ValidAfter:      validAfter,
		ValidBefore:     validBefore,
	})
	if err != nil {
		s.logger.Error("Failed to create authorization",
			zap.String("user_id", params.UserID.String()),
			zap.Error(err))
		return nil, &x402.StorageError{Err: err}
	}

	s.recordLog(ctx, auth, constants.PaymentLogAuthorizationCreated, "")

	return &CreatedAuthorization{
		Authorization: auth,
		TypedData:     x402.TypedData(domain, message),
	}, nil
}

// GetAuthorization retrieves an authorization visible to the given user.
func (s *AuthorizationService) GetAuthorization(ctx context.Context, userID uuid.UUID, id string) (*db.Authorization, error) {
	auth, err := s.queries.GetUserAuthorization(ctx, db.GetUserAuthorizationParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &x402.NotFoundError{Resource: "authorization"}
		}
		return nil, &x402.StorageError{Err: err}
	}
	return &auth, nil
}

// ListAuthorizationsParams contains filters for listing authorizations
type ListAuthorizationsParams struct {
	UserID uuid.UUID
	Status string // Empty matches all statuses
	Limit  int32
	Offset int32
}

// ListAuthorizations returns a page of the user's authorizations plus the
// total count for the filter.
func (s *AuthorizationService) ListAuthorizations(ctx context.Context, params ListAuthorizationsParams) ([]db.Authorization, int64, error) {
	if params.Status != "" {
		if _, err := x402.ParseStatus(params.Status); err != nil {
			return nil, 0, x402.NewValidationError("unknown status filter %q", params.Status)
		}
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := s.queries.ListAuthorizationsByUser(ctx, db.ListAuthorizationsByUserParams{
		UserID: params.UserID,
		Status: params.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, &x402.StorageError{Err: err}
	}

	total, err := s.queries.CountAuthorizationsByUser(ctx, db.CountAuthorizationsByUserParams{
		UserID: params.UserID,
		Status: params.Status,
	})
	if err != nil {
		return nil, 0, &x402.StorageError{Err: err}
	}

	return items, total, nil
}

// AttachSignature records the wallet signature on a pending authorization.
// The signature must recover to the from address and is immutable once
// stored; re-attaching the identical signature is an idempotent success.
func (s *AuthorizationService) AttachSignature(ctx context.Context, userID uuid.UUID, id, signature string) (*db.Authorization, error) {
	if !x402.IsValidSignatureFormat(signature) {
		return nil, x402.NewValidationError("signature is not a 65-byte hex value")
	}

	auth, err := s.GetAuthorization(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if auth.Signature.Valid {
		if strings.EqualFold(auth.Signature.String, signature) {
			return auth, nil
		}
		return nil, x402.NewValidationError("authorization already has a different signature")
	}
	if auth.Status != string(x402.StatusPending) {
		return nil, &x402.InvalidStateTransitionError{From: x402.Status(auth.Status), To: x402.StatusPending}
	}

	signer, err := x402.RecoverSigner(typedDataFor(*auth), signature)
	if err != nil {
		return nil, err
	}
	if signer != common.HexToAddress(auth.FromAddress) {
		return nil, x402.NewValidationError("signature recovers to %s, expected %s", signer.Hex(), auth.FromAddress)
	}

	updated, err := s.queries.SetAuthorizationSignature(ctx, db.SetAuthorizationSignatureParams{
		ID:        id,
		Signature: signature,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race with another writer; re-read to report honestly.
			return s.reportSignatureConflict(ctx, userID, id, signature)
		}
		return nil, &x402.StorageError{Err: err}
	}

	s.recordLog(ctx, updated, constants.PaymentLogAuthorizationSigned, "")

	return &updated, nil
}

func (s *AuthorizationService) reportSignatureConflict(ctx context.Context, userID uuid.UUID, id, signature string) (*db.Authorization, error) {
	current, err := s.GetAuthorization(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if current.Signature.Valid && strings.EqualFold(current.Signature.String, signature) {
		return current, nil
	}
	if current.Signature.Valid {
		return nil, x402.NewValidationError("authorization already has a different signature")
	}
	return nil, &x402.InvalidStateTransitionError{From: x402.Status(current.Status), To: x402.StatusPending}
}

// CancelAuthorization cancels a pending authorization. Only the owner may
// cancel, and only while the record is still pending; the conditional
// update resolves races against a concurrent settlement attempt.
func (s *AuthorizationService) CancelAuthorization(ctx context.Context, userID uuid.UUID, id string) (*db.Authorization, error) {
	auth, err := s.GetAuthorization(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := x402.CheckTransition(x402.Status(auth.Status), x402.StatusCancelled); err != nil {
		return nil, err
	}

	updated, err := s.queries.TransitionAuthorizationStatus(ctx, db.TransitionAuthorizationStatusParams{
		ID:         id,
		FromStatus: string(x402.StatusPending),
		Status:     string(x402.StatusCancelled),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.transitionConflict(ctx, userID, id, x402.StatusCancelled)
		}
		return nil, &x402.StorageError{Err: err}
	}

	s.recordLog(ctx, updated, constants.PaymentLogAuthorizationCancelled, "")

	s.logger.Info("Authorization cancelled",
		zap.String("authorization_id", id),
		zap.String("user_id", userID.String()))

	return &updated, nil
}

// transitionConflict re-reads a record after a zero-row conditional update
// and renders the live status as an InvalidStateTransitionError.
func (s *AuthorizationService) transitionConflict(ctx context.Context, userID uuid.UUID, id string, to x402.Status) error {
	current, err := s.GetAuthorization(ctx, userID, id)
	if err != nil {
		return err
	}
	return &x402.InvalidStateTransitionError{From: x402.Status(current.Status), To: to}
}

func (s *AuthorizationService) recordLog(ctx context.Context, auth db.Authorization, eventType, txHash string) {
	detail, _ := json.Marshal(map[string]interface{}{
		"status":  auth.Status,
		"chainId": auth.ChainID,
		"amount":  auth.Amount,
		"token":   auth.TokenAddress,
	})

	params := db.CreatePaymentLogParams{
		AuthorizationID: auth.ID,
		UserID:          auth.UserID,
		EventType:       eventType,
		Detail:          detail,
	}
	if txHash != "" {
		params.TransactionHash = pgtype.Text{String: txHash, Valid: true}
	}

	if _, err := s.queries.CreatePaymentLog(ctx, params); err != nil {
		s.logger.Warn("Failed to append payment log",
			zap.String("authorization_id", auth.ID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// typedDataFor rebuilds the EIP-712 payload from a stored record. The
// record was validated at creation, so builder errors cannot occur here.
func typedDataFor(auth db.Authorization) apitypes.TypedData {
	domain := x402.Domain{
		Name:              auth.TokenName,
		Version:           constants.TokenDomainVersion,
		ChainID:           auth.ChainID,
		VerifyingContract: auth.TokenAddress,
	}
	message := x402.Message{
		From:        auth.FromAddress,
		To:          auth.ToAddress,
		Value:       auth.AmountBaseUnits,
		ValidAfter:  auth.ValidAfter,
		ValidBefore: auth.ValidBefore,
		Nonce:       auth.Nonce,
	}
	return x402.TypedData(domain, message)
}
