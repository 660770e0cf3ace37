package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/auth"
	"github.com/protocolbanks/x402-api/internal/client/facilitator"
	"github.com/protocolbanks/x402-api/internal/db"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/services"
)

// X402Handler handles payment authorization operations
type X402Handler struct {
	common *CommonServices
}

// NewX402Handler creates a new instance of X402Handler
func NewX402Handler(common *CommonServices) *X402Handler {
	return &X402Handler{common: common}
}

// CreateAuthorizationRequest represents the request body for creating an authorization
type CreateAuthorizationRequest struct {
	TokenAddress  string `json:"token_address" binding:"required"`
	TokenName     string `json:"token_name" binding:"required"`
	TokenDecimals int32  `json:"token_decimals" binding:"required,min=0,max=36"`
	ChainID       int64  `json:"chain_id" binding:"required,min=1"`
	From          string `json:"from" binding:"required"`
	To            string `json:"to" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	ValidFor      int64  `json:"valid_for_seconds,omitempty"`
}

// SignAuthorizationRequest represents the request body for attaching a signature
type SignAuthorizationRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// VerifyAuthorizationRequest represents the request body for verifying settlement
type VerifyAuthorizationRequest struct {
	TransactionHash string `json:"transaction_hash" binding:"required"`
}

// AuthorizationResponse represents the standardized API response for an authorization
type AuthorizationResponse struct {
	ID               string `json:"id"`
	Object           string `json:"object"`
	Status           string `json:"status"`
	TokenAddress     string `json:"token_address"`
	TokenName        string `json:"token_name"`
	TokenDecimals    int32  `json:"token_decimals"`
	ChainID          int64  `json:"chain_id"`
	From             string `json:"from"`
	To               string `json:"to"`
	Amount           string `json:"amount"`
	AmountBaseUnits  string `json:"amount_base_units"`
	Nonce            string `json:"nonce"`
	ValidAfter       int64  `json:"valid_after"`
	ValidBefore      int64  `json:"valid_before"`
	Signed           bool   `json:"signed"`
	SettlementMethod string `json:"settlement_method,omitempty"`
	TransactionHash  string `json:"transaction_hash,omitempty"`
	RelayerFee       string `json:"relayer_fee,omitempty"`
	RelayerAddress   string `json:"relayer_address,omitempty"`
	Created          int64  `json:"created"`
	Updated          int64  `json:"updated"`
}

// CreatedAuthorizationResponse pairs the stored record with the EIP-712
// payload the wallet must sign.
type CreatedAuthorizationResponse struct {
	Authorization AuthorizationResponse `json:"authorization"`
	TypedData     apitypes.TypedData    `json:"typed_data"`
}

// SubmitResponse represents the settlement dispatch outcome
type SubmitResponse struct {
	Authorization   string `json:"authorization_id"`
	Method          string `json:"method"`
	TransactionHash string `json:"transaction_hash"`
	Fee             string `json:"fee"`
	Status          string `json:"status"`
}

// VerifyResponse represents the verification outcome
type VerifyResponse struct {
	Authorization   string `json:"authorization_id"`
	Verified        bool   `json:"verified"`
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash"`
}

func toAuthorizationResponse(a db.Authorization) AuthorizationResponse {
	return AuthorizationResponse{
		ID:               a.ID,
		Object:           "x402.authorization",
		Status:           a.Status,
		TokenAddress:     a.TokenAddress,
		TokenName:        a.TokenName,
		TokenDecimals:    a.TokenDecimals,
		ChainID:          a.ChainID,
		From:             a.FromAddress,
		To:               a.ToAddress,
		Amount:           a.Amount,
		AmountBaseUnits:  a.AmountBaseUnits,
		Nonce:            a.Nonce,
		ValidAfter:       a.ValidAfter,
		ValidBefore:      a.ValidBefore,
		Signed:           a.Signature.Valid,
		SettlementMethod: a.SettlementMethod.String,
		TransactionHash:  a.TransactionHash.String,
		RelayerFee:       a.RelayerFee.String,
		RelayerAddress:   a.RelayerAddress.String,
		Created:          a.CreatedAt.Time.Unix(),
		Updated:          a.UpdatedAt.Time.Unix(),
	}
}

// CreateAuthorization creates a new payment authorization
// @Summary Create payment authorization
// @Description Creates a pending transfer authorization and returns the EIP-712 payload to sign
// @Tags x402
// @Accept json
// @Produce json
// @Param request body CreateAuthorizationRequest true "Authorization details"
// @Success 201 {object} CreatedAuthorizationResponse
// @Failure 400 {object} ErrorResponse
// @Router /x402/authorizations [post]
func (h *X402Handler) CreateAuthorization(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	var req CreateAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	created, err := h.common.authorizations.CreateAuthorization(c.Request.Context(), services.CreateAuthorizationParams{
		UserID:        userID,
		TokenAddress:  req.TokenAddress,
		TokenName:     req.TokenName,
		TokenDecimals: req.TokenDecimals,
		ChainID:       req.ChainID,
		From:          req.From,
		To:            req.To,
		Amount:        req.Amount,
		ValidFor:      req.ValidFor,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusCreated, CreatedAuthorizationResponse{
		Authorization: toAuthorizationResponse(created.Authorization),
		TypedData:     created.TypedData,
	})
}

// GetAuthorization retrieves a specific authorization by its ID
// @Summary Get payment authorization
// @Description Retrieves an authorization owned by the authenticated user
// @Tags x402
// @Produce json
// @Param id path string true "Authorization ID"
// @Success 200 {object} AuthorizationResponse
// @Failure 404 {object} ErrorResponse
// @Router /x402/authorizations/{id} [get]
func (h *X402Handler) GetAuthorization(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	authz, err := h.common.authorizations.GetAuthorization(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, toAuthorizationResponse(*authz))
}

// ListAuthorizations retrieves the user's authorizations
// @Summary List payment authorizations
// @Description Lists authorizations for the authenticated user, optionally filtered by status
// @Tags x402
// @Produce json
// @Param status query string false "Status filter"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Router /x402/authorizations [get]
func (h *X402Handler) ListAuthorizations(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 32)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 32)

	items, total, err := h.common.authorizations.ListAuthorizations(c.Request.Context(), services.ListAuthorizationsParams{
		UserID: userID,
		Status: c.Query("status"),
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]AuthorizationResponse, len(items))
	for i, item := range items {
		response[i] = toAuthorizationResponse(item)
	}

	sendList(c, response, total)
}

// SignAuthorization attaches a wallet signature to a pending authorization
// @Summary Attach signature
// @Description Records the EIP-712 signature; it must recover to the from address
// @Tags x402
// @Accept json
// @Produce json
// @Param id path string true "Authorization ID"
// @Param request body SignAuthorizationRequest true "Signature"
// @Success 200 {object} AuthorizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /x402/authorizations/{id}/signature [post]
func (h *X402Handler) SignAuthorization(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	var req SignAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	authz, err := h.common.authorizations.AttachSignature(c.Request.Context(), userID, c.Param("id"), req.Signature)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, toAuthorizationResponse(*authz))
}

// CancelAuthorization cancels a pending authorization
// @Summary Cancel authorization
// @Description Cancels an authorization that has not yet been submitted for settlement
// @Tags x402
// @Produce json
// @Param id path string true "Authorization ID"
// @Success 200 {object} AuthorizationResponse
// @Failure 409 {object} ErrorResponse
// @Router /x402/authorizations/{id}/cancel [post]
func (h *X402Handler) CancelAuthorization(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	authz, err := h.common.authorizations.CancelAuthorization(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, toAuthorizationResponse(*authz))
}

// SubmitAuthorization dispatches a signed authorization for settlement
// @Summary Submit authorization for settlement
// @Description Settles via the zero-fee facilitator when supported, otherwise via the relayer
// @Tags x402
// @Produce json
// @Param id path string true "Authorization ID"
// @Success 200 {object} SubmitResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /x402/authorizations/{id}/submit [post]
func (h *X402Handler) SubmitAuthorization(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	id := c.Param("id")
	result, err := h.common.settlement.Submit(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, SubmitResponse{
		Authorization:   id,
		Method:          result.Method,
		TransactionHash: result.TransactionHash,
		Fee:             result.Fee,
		Status:          string(result.Status),
	})
}

// VerifyAuthorization confirms relayer settlement of a submitted authorization
// @Summary Verify settlement
// @Description Marks a submitted authorization completed under the reported transaction hash
// @Tags x402
// @Accept json
// @Produce json
// @Param id path string true "Authorization ID"
// @Param request body VerifyAuthorizationRequest true "Transaction hash"
// @Success 200 {object} VerifyResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /x402/authorizations/{id}/verify [post]
func (h *X402Handler) VerifyAuthorization(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No authenticated user", err)
		return
	}

	var req VerifyAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	id := c.Param("id")
	result, err := h.common.verification.Verify(c.Request.Context(), userID, id, req.TransactionHash)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, VerifyResponse{
		Authorization:   id,
		Verified:        result.Verified,
		Status:          string(result.Status),
		TransactionHash: result.TransactionHash,
	})
}

// SupportedLister reports the facilitator's live settlement capabilities.
type SupportedLister interface {
	Supported(ctx context.Context) ([]facilitator.SupportedKind, error)
}

// SupportedNetworkResponse describes one facilitator-settled pair
type SupportedNetworkResponse struct {
	ChainID      int64  `json:"chain_id"`
	Network      string `json:"network"`
	TokenAddress string `json:"token_address"`
}

// GetSupportedNetworks lists the chain/token pairs eligible for zero-fee settlement
// @Summary List supported networks
// @Description Lists the configured chain/token pairs, cross-checked against the facilitator's live supported listing
// @Tags x402
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /x402/supported [get]
func (h *X402Handler) GetSupportedNetworks(c *gin.Context) {
	pairs := h.common.config.FacilitatorPairs

	// Cross-check configured pairs against the facilitator's live listing.
	// When the listing is unavailable the configured pairs are served
	// unfiltered rather than failing the endpoint.
	filterLive := false
	live := make(map[string]bool)
	if h.common.facilitator != nil {
		kinds, err := h.common.facilitator.Supported(c.Request.Context())
		if err != nil {
			logger.Warn("Could not fetch facilitator supported listing", zap.Error(err))
		} else {
			filterLive = true
			for _, kind := range kinds {
				if kind.Scheme == facilitator.SchemeExact {
					live[kind.Network] = true
				}
			}
		}
	}

	response := make([]SupportedNetworkResponse, 0, len(pairs))
	for _, pair := range pairs {
		network, err := facilitator.NetworkName(pair.ChainID)
		if err != nil {
			continue
		}
		if filterLive && !live[network] {
			continue
		}
		response = append(response, SupportedNetworkResponse{
			ChainID:      pair.ChainID,
			Network:      network,
			TokenAddress: pair.TokenAddress,
		})
	}

	sendList(c, response, int64(len(response)))
}
