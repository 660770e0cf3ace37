package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/protocolbanks/x402-api/internal/client/facilitator"
	"github.com/protocolbanks/x402-api/internal/client/relayer"
	"github.com/protocolbanks/x402-api/internal/constants"
	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/mocks"
	"github.com/protocolbanks/x402-api/internal/services"
	"github.com/protocolbanks/x402-api/internal/x402"
)

const (
	testTxHash        = "0xcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd"
	testRelayerAddr   = "0x3333333333333333333333333333333333333333"
	testSignatureData = "0xabababababababababababababababababababababababababababababababababababababababababababababababababababababababababababababababab1b"
)

type stubFacilitator struct {
	resp *facilitator.SettleResponse
	err  error

	calls int
}

func (s *stubFacilitator) Settle(ctx context.Context, payload facilitator.PaymentPayload, requirements facilitator.PaymentRequirements) (*facilitator.SettleResponse, error) {
	s.calls++
	return s.resp, s.err
}

type stubRelayer struct {
	resp *relayer.SubmitResponse
	err  error

	calls int
	last  relayer.SubmitRequest
}

func (s *stubRelayer) Submit(ctx context.Context, req relayer.SubmitRequest) (*relayer.SubmitResponse, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

func signedPendingAuthorization(userID uuid.UUID) db.Authorization {
	auth := pendingAuthorization(userID)
	auth.Signature = pgtype.Text{String: testSignatureData, Valid: true}
	return auth
}

func newSettlementService(t *testing.T, fac services.FacilitatorClient, rel services.RelayerClient, supported bool) (*services.SettlementService, *mocks.MockQuerier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockQuerier := mocks.NewMockQuerier(ctrl)
	authService := services.NewAuthorizationService(mockQuerier, services.NewNonceService(mockQuerier))

	service := services.NewSettlementService(services.SettlementServiceParams{
		Queries:     mockQuerier,
		AuthService: authService,
		Facilitator: fac,
		Relayer:     rel,
		Supported:   func(int64, string) bool { return supported },
		FeeBps:      50,
	})
	service.SetNowFunc(func() int64 { return 1_700_000_100 })
	return service, mockQuerier
}

func TestSettlementService_Submit_Facilitator(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)

	fac := &stubFacilitator{resp: &facilitator.SettleResponse{
		Success:     true,
		Transaction: testTxHash,
		Network:     "base",
	}}
	rel := &stubRelayer{}
	service, mockQuerier := newSettlementService(t, fac, rel, true)

	settled := auth
	settled.Status = string(x402.StatusSettled)
	completed := auth
	completed.Status = string(x402.StatusCompleted)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), db.GetUserAuthorizationParams{ID: auth.ID, UserID: userID}).
		Return(auth, nil)
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.TransitionAuthorizationStatusParams) (db.Authorization, error) {
			assert.Equal(t, string(x402.StatusPending), arg.FromStatus)
			assert.Equal(t, string(x402.StatusSettled), arg.Status)
			assert.Equal(t, constants.SettlementMethodCDP, arg.SettlementMethod.String)
			assert.Equal(t, testTxHash, arg.TransactionHash.String)
			assert.Equal(t, "0", arg.RelayerFee.String)
			return settled, nil
		})
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.TransitionAuthorizationStatusParams) (db.Authorization, error) {
			assert.Equal(t, string(x402.StatusSettled), arg.FromStatus)
			assert.Equal(t, string(x402.StatusCompleted), arg.Status)
			return completed, nil
		})
	mockQuerier.EXPECT().
		CreatePaymentLog(gomock.Any(), gomock.Any()).
		Return(db.PaymentLog{}, nil).
		Times(2)

	result, err := service.Submit(context.Background(), userID, auth.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.SettlementMethodCDP, result.Method)
	assert.Equal(t, testTxHash, result.TransactionHash)
	assert.Equal(t, "0", result.Fee)
	assert.Equal(t, x402.StatusCompleted, result.Status)
	assert.Equal(t, 1, fac.calls)
	assert.Equal(t, 0, rel.calls)
}

func TestSettlementService_Submit_RelayerFallback(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)

	fac := &stubFacilitator{err: errors.New("facilitator unavailable")}
	rel := &stubRelayer{resp: &relayer.SubmitResponse{
		RelayerAddress:  testRelayerAddr,
		TransactionHash: testTxHash,
	}}
	service, mockQuerier := newSettlementService(t, fac, rel, true)

	submitted := auth
	submitted.Status = string(x402.StatusSubmitted)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.TransitionAuthorizationStatusParams) (db.Authorization, error) {
			assert.Equal(t, string(x402.StatusSubmitted), arg.Status)
			assert.Equal(t, constants.SettlementMethodRelayer, arg.SettlementMethod.String)
			assert.Equal(t, "0.25", arg.RelayerFee.String)
			assert.Equal(t, testRelayerAddr, arg.RelayerAddress.String)
			return submitted, nil
		})
	mockQuerier.EXPECT().
		CreatePaymentLog(gomock.Any(), gomock.Any()).
		Return(db.PaymentLog{}, nil)

	result, err := service.Submit(context.Background(), userID, auth.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.SettlementMethodRelayer, result.Method)
	assert.Equal(t, "0.25", result.Fee)
	assert.Equal(t, x402.StatusSubmitted, result.Status)
	assert.Equal(t, 1, fac.calls)
	assert.Equal(t, 1, rel.calls)
	assert.Equal(t, auth.Nonce, rel.last.Message.Nonce)
	assert.Equal(t, auth.TokenAddress, rel.last.Domain.VerifyingContract)
}

func TestSettlementService_Submit_RelayerWhenUnsupported(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)

	fac := &stubFacilitator{}
	rel := &stubRelayer{resp: &relayer.SubmitResponse{
		RelayerAddress:  testRelayerAddr,
		TransactionHash: testTxHash,
	}}
	service, mockQuerier := newSettlementService(t, fac, rel, false)

	submitted := auth
	submitted.Status = string(x402.StatusSubmitted)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), gomock.Any()).
		Return(submitted, nil)
	mockQuerier.EXPECT().
		CreatePaymentLog(gomock.Any(), gomock.Any()).
		Return(db.PaymentLog{}, nil)

	result, err := service.Submit(context.Background(), userID, auth.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.SettlementMethodRelayer, result.Method)
	assert.Equal(t, 0, fac.calls)
	assert.Equal(t, 1, rel.calls)
}

func TestSettlementService_Submit_BothPathsFail(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)

	fac := &stubFacilitator{resp: &facilitator.SettleResponse{
		Success:     false,
		ErrorReason: "insufficient_funds",
	}}
	rel := &stubRelayer{err: errors.New("relayer timeout")}
	service, mockQuerier := newSettlementService(t, fac, rel, true)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)

	_, err := service.Submit(context.Background(), userID, auth.ID)
	var settlementErr *x402.SettlementFailureError
	require.True(t, errors.As(err, &settlementErr))
	assert.True(t, settlementErr.Retryable())
	assert.Error(t, settlementErr.FacilitatorErr)
	assert.Error(t, settlementErr.RelayerErr)
}

func TestSettlementService_Submit_ExpiredWindow(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)
	auth.ValidBefore = 1_700_000_000 // before the test clock

	service, mockQuerier := newSettlementService(t, &stubFacilitator{}, &stubRelayer{}, true)

	expired := auth
	expired.Status = string(x402.StatusExpired)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), db.TransitionAuthorizationStatusParams{
			ID:         auth.ID,
			FromStatus: string(x402.StatusPending),
			Status:     string(x402.StatusExpired),
		}).
		Return(expired, nil)
	mockQuerier.EXPECT().
		CreatePaymentLog(gomock.Any(), gomock.Any()).
		Return(db.PaymentLog{}, nil)

	_, err := service.Submit(context.Background(), userID, auth.ID)
	var expiredErr *x402.AuthorizationExpiredError
	require.True(t, errors.As(err, &expiredErr))
	assert.Equal(t, auth.ValidBefore, expiredErr.ValidBefore)
}

func TestSettlementService_Submit_Unsigned(t *testing.T) {
	userID := uuid.New()
	auth := pendingAuthorization(userID)

	service, mockQuerier := newSettlementService(t, &stubFacilitator{}, &stubRelayer{}, true)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)

	_, err := service.Submit(context.Background(), userID, auth.ID)
	var validationErr *x402.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestSettlementService_Submit_NotPending(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)
	auth.Status = string(x402.StatusCancelled)

	service, mockQuerier := newSettlementService(t, &stubFacilitator{}, &stubRelayer{}, true)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)

	_, err := service.Submit(context.Background(), userID, auth.ID)
	var transitionErr *x402.InvalidStateTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, x402.StatusCancelled, transitionErr.From)
}

func TestSettlementService_Submit_FacilitatorStorageFailure(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)

	fac := &stubFacilitator{resp: &facilitator.SettleResponse{
		Success:     true,
		Transaction: testTxHash,
	}}
	rel := &stubRelayer{resp: &relayer.SubmitResponse{
		RelayerAddress:  testRelayerAddr,
		TransactionHash: testTxHash,
	}}
	service, mockQuerier := newSettlementService(t, fac, rel, true)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), gomock.Any()).
		Return(db.Authorization{}, errors.New("connection reset by peer"))

	// The facilitator reported success, so a storage failure recording it
	// must not trigger a relayer re-submission of the settled transfer.
	_, err := service.Submit(context.Background(), userID, auth.ID)
	var storageErr *x402.StorageError
	require.True(t, errors.As(err, &storageErr))
	var settlementErr *x402.SettlementFailureError
	assert.False(t, errors.As(err, &settlementErr))
	assert.Equal(t, 1, fac.calls)
	assert.Equal(t, 0, rel.calls)
}

func TestSettlementService_Submit_ConcurrentCancel(t *testing.T) {
	userID := uuid.New()
	auth := signedPendingAuthorization(userID)

	fac := &stubFacilitator{resp: &facilitator.SettleResponse{
		Success:     true,
		Transaction: testTxHash,
	}}
	service, mockQuerier := newSettlementService(t, fac, &stubRelayer{}, true)

	cancelled := auth
	cancelled.Status = string(x402.StatusCancelled)

	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(auth, nil)
	mockQuerier.EXPECT().
		TransitionAuthorizationStatus(gomock.Any(), gomock.Any()).
		Return(db.Authorization{}, pgx.ErrNoRows)
	mockQuerier.EXPECT().
		GetUserAuthorization(gomock.Any(), gomock.Any()).
		Return(cancelled, nil)

	_, err := service.Submit(context.Background(), userID, auth.ID)
	var transitionErr *x402.InvalidStateTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, x402.StatusCancelled, transitionErr.From)
}
