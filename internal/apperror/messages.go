package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// OP_NET node errors
	CodeOPNetConnectionFailed: "Failed to connect to OP_NET node",
	CodeOPNetRPCError:         "OP_NET RPC call failed",
	CodeContractCallFailed:    "Contract call failed",
	CodeContractReverted:      "Contract call reverted",
	CodeInvalidCallResult:     "Invalid contract call result",

	// Pool and token data errors
	CodePoolNotFound:      "Pool not found",
	CodePoolTokenMismatch: "Token is not part of pool",
	CodeTokenDataFailed:   "Failed to fetch token data",

	// Spot feed errors
	CodeCoinGeckoAPIError: "CoinGecko API error",
	CodeMagicEdenAPIError: "Magic Eden API error",
	CodeInvalidFeedData:   "Invalid price feed data",

	// Notifier errors
	CodeTelegramNotConfigured: "Telegram bot token or chat id not configured",
	CodeTelegramSendFailed:    "Failed to send Telegram message",
	CodeTelegramRateLimited:   "Telegram rate limit exceeded",

	// Scheduler errors
	CodeSchedulerJobInvalid: "Invalid scheduler job",

	// Cache errors
	CodeCacheMiss: "Cache miss",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
