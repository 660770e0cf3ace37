package constants

// Environments
const (
	DevEnvironment  = "dev"
	TestEnvironment = "test"
	ProdEnvironment = "prod"
)

// Settlement methods
const (
	SettlementMethodCDP     = "cdp"
	SettlementMethodRelayer = "relayer"
)

// Authorization validity bounds in seconds
const (
	DefaultValiditySeconds = 3600
	MinValiditySeconds     = 60
	MaxValiditySeconds     = 86400
)

// EIP-712 domain parameters for transferWithAuthorization tokens.
// USDC deployments use domain version 2.
const (
	TokenDomainVersion = "2"
)

// Payment log event types
const (
	PaymentLogAuthorizationCreated   = "x402.authorization.created"
	PaymentLogAuthorizationSigned    = "x402.authorization.signed"
	PaymentLogAuthorizationSettled   = "x402.authorization.settled"
	PaymentLogAuthorizationCompleted = "x402.authorization.completed"
	PaymentLogAuthorizationExpired   = "x402.authorization.expired"
	PaymentLogAuthorizationCancelled = "x402.authorization.cancelled"
)
