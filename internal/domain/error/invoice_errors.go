package error

import "errors"

// Invoice domain errors.
var (
	// ErrInvalidCardConfiguration is returned when a card cannot be used to resolve cycles.
	ErrInvalidCardConfiguration = errors.New("invalid card configuration")

	// ErrInvalidDate is returned when a transaction date cannot be placed in a cycle.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidCycleID is returned when a cycle identifier is not in YYYY-MM format.
	ErrInvalidCycleID = errors.New("invalid cycle id")
)

// InvoiceErrorCode defines error codes for invoice errors.
// Format: INV-XXYYYY where XX is category and YYYY is specific error.
type InvoiceErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCardConfiguration InvoiceErrorCode = "INV-010001"
	ErrCodeInvalidInvoiceDate       InvoiceErrorCode = "INV-010002"
	ErrCodeInvalidCycleID           InvoiceErrorCode = "INV-010003"

	// Lookup errors (02XXXX)
	ErrCodeInvoiceCardNotFound InvoiceErrorCode = "INV-020001"
	ErrCodeInvoiceCardNotOwned InvoiceErrorCode = "INV-020002"
)

// InvoiceError represents an invoice error with code and message.
type InvoiceError struct {
	Code    InvoiceErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InvoiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InvoiceError) Unwrap() error {
	return e.Err
}

// NewInvoiceError creates a new InvoiceError with the given code and message.
func NewInvoiceError(code InvoiceErrorCode, message string, err error) *InvoiceError {
	return &InvoiceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
