package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// OPtrack-specific error codes
const (
	// OP_NET node errors
	CodeOPNetConnectionFailed Code = "OPNET_CONNECTION_FAILED"
	CodeOPNetRPCError         Code = "OPNET_RPC_ERROR"
	CodeContractCallFailed    Code = "CONTRACT_CALL_FAILED"
	CodeContractReverted      Code = "CONTRACT_REVERTED"
	CodeInvalidCallResult     Code = "INVALID_CALL_RESULT"

	// Pool and token data errors
	CodePoolNotFound      Code = "POOL_NOT_FOUND"
	CodePoolTokenMismatch Code = "POOL_TOKEN_MISMATCH"
	CodeTokenDataFailed   Code = "TOKEN_DATA_FAILED"

	// Spot feed errors
	CodeCoinGeckoAPIError Code = "COINGECKO_API_ERROR"
	CodeMagicEdenAPIError Code = "MAGICEDEN_API_ERROR"
	CodeInvalidFeedData   Code = "INVALID_FEED_DATA"

	// Notifier errors
	CodeTelegramNotConfigured Code = "TELEGRAM_NOT_CONFIGURED"
	CodeTelegramSendFailed    Code = "TELEGRAM_SEND_FAILED"
	CodeTelegramRateLimited   Code = "TELEGRAM_RATE_LIMITED"

	// Scheduler errors
	CodeSchedulerJobInvalid Code = "SCHEDULER_JOB_INVALID"

	// Cache errors
	CodeCacheMiss Code = "CACHE_MISS"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
