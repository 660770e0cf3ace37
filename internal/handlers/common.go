package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/protocolbanks/x402-api/internal/config"
	"github.com/protocolbanks/x402-api/internal/logger"
	"github.com/protocolbanks/x402-api/internal/services"
	"github.com/protocolbanks/x402-api/internal/x402"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	authorizations *services.AuthorizationService
	settlement     *services.SettlementService
	verification   *services.VerificationService
	facilitator    SupportedLister // nil when no facilitator is configured
	config         *config.Config
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(
	authorizations *services.AuthorizationService,
	settlement *services.SettlementService,
	verification *services.VerificationService,
	facilitator SupportedLister,
	cfg *config.Config,
) *CommonServices {
	return &CommonServices{
		authorizations: authorizations,
		settlement:     settlement,
		verification:   verification,
		facilitator:    facilitator,
		config:         cfg,
	}
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleServiceError maps service-layer errors onto HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	var (
		validation *x402.ValidationError
		notFound   *x402.NotFoundError
		forbidden  *x402.UnauthorizedError
		transition *x402.InvalidStateTransitionError
		expired    *x402.AuthorizationExpiredError
		settlement *x402.SettlementFailureError
		storage    *x402.StorageError
	)

	switch {
	case errors.As(err, &validation):
		sendError(c, http.StatusBadRequest, validation.Message, err)
	case errors.As(err, &notFound):
		sendError(c, http.StatusNotFound, notFound.Error(), err)
	case errors.As(err, &forbidden):
		sendError(c, http.StatusForbidden, forbidden.Message, err)
	case errors.As(err, &transition):
		sendError(c, http.StatusConflict, transition.Error(), err)
	case errors.As(err, &expired):
		sendError(c, http.StatusGone, expired.Error(), err)
	case errors.As(err, &settlement):
		sendError(c, http.StatusBadGateway, settlement.Error(), err)
	case errors.As(err, &storage):
		sendError(c, http.StatusServiceUnavailable, "Storage temporarily unavailable", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendList is a helper function that sends a paginated list response
func sendList(c *gin.Context, items interface{}, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
		"total":  total,
	})
}
