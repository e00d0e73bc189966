package response

type ErrorCode int

const (
	OK ErrorCode = 0

	InvalidRequest ErrorCode = 40001
	TokenExpired   ErrorCode = 40101
	UserNotFound   ErrorCode = 40102
	InvalidToken   ErrorCode = 40103
	TokenMissing   ErrorCode = 40104

	InvalidRole         ErrorCode = 40301
	ConstraintViolation ErrorCode = 40302 // signer, ownership or capability check failed

	AccountNotFound ErrorCode = 40401

	InvalidStateTransition ErrorCode = 40901
	AccountInUse           ErrorCode = 40902

	InsufficientFunds ErrorCode = 42201
	LedgerRejected    ErrorCode = 42202

	TooManyRequests ErrorCode = 42901

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
