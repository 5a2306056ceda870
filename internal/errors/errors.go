// Package errors provides custom error types for the totality API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Directory errors.
var (
	ErrWorkspaceNotFound = &AppError{Code: "WORKSPACE_NOT_FOUND", Message: "Workspace not found", StatusCode: http.StatusNotFound}
	ErrAccountNotFound   = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrBucketNotFound    = &AppError{Code: "BUCKET_NOT_FOUND", Message: "Bucket not found", StatusCode: http.StatusNotFound}
	ErrCurrencyNotFound  = &AppError{Code: "CURRENCY_NOT_FOUND", Message: "Currency not found", StatusCode: http.StatusNotFound}
)

// Transaction and ledger errors.
var (
	ErrTransactionNotFound   = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrBalanceNotFound       = &AppError{Code: "BALANCE_NOT_FOUND", Message: "Balance snapshot not found", StatusCode: http.StatusNotFound}
	ErrSameAccountTransfer   = &AppError{Code: "SAME_ACCOUNT_TRANSFER", Message: "Cannot transfer to the same account", StatusCode: http.StatusBadRequest}
	ErrMissingExchangeAmount = &AppError{Code: "MISSING_EXCHANGE_AMOUNT", Message: "Cross-currency transfer requires an exchange amount", StatusCode: http.StatusBadRequest}

	// ErrUnbalancedLedger indicates the zero-sum invariant failed after a
	// mutation batch. It is never expected on well-formed input; it means a
	// composition bug or data corruption and must abort the enclosing
	// database transaction.
	ErrUnbalancedLedger = &AppError{Code: "UNBALANCED_LEDGER", Message: "Ledger balance failed verification", StatusCode: http.StatusInternalServerError}

	// ErrConflict is returned when concurrent postings against the same
	// workspace keep colliding after the retry budget is exhausted.
	ErrConflict = &AppError{Code: "CONFLICT", Message: "Concurrent update conflict, please retry", StatusCode: http.StatusConflict}
)
