package x402

import "fmt"

// ValidationError indicates malformed caller input. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates the referenced record does not exist or is not
// visible to the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// UnauthorizedError indicates a non-owner attempted to view or mutate an
// authorization.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// InvalidStateTransitionError indicates an illegal lifecycle move.
type InvalidStateTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// AuthorizationExpiredError indicates the validity window has passed. The
// record has already been transitioned to expired when this is returned.
type AuthorizationExpiredError struct {
	ValidBefore int64
}

func (e *AuthorizationExpiredError) Error() string {
	return fmt.Sprintf("authorization expired at %d", e.ValidBefore)
}

// SettlementFailureError indicates both the facilitator and relayer paths
// failed. The authorization remains in its pre-call status, so the
// submission is safe to retry.
type SettlementFailureError struct {
	FacilitatorErr error
	RelayerErr     error
}

func (e *SettlementFailureError) Error() string {
	return fmt.Sprintf("settlement failed: facilitator: %v; relayer: %v", e.FacilitatorErr, e.RelayerErr)
}

// Retryable reports that the caller may retry the submission.
func (e *SettlementFailureError) Retryable() bool {
	return true
}

// StorageError indicates the durable store was unreachable. Fails closed:
// no nonce is issued and no status mutation is assumed to have happened.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Retryable reports that the caller may retry once the store recovers.
func (e *StorageError) Retryable() bool {
	return true
}
