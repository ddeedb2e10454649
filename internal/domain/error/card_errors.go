package error

import "errors"

// Card domain errors.
var (
	// ErrCardNotFound is returned when a card is not found in the system.
	ErrCardNotFound = errors.New("card not found")

	// ErrNotAuthorizedToAccessCard is returned when a card belongs to another owner.
	ErrNotAuthorizedToAccessCard = errors.New("not authorized to access card")

	// ErrInvalidCardType is returned when the card type is neither credit nor debit.
	ErrInvalidCardType = errors.New("invalid card type")

	// ErrInvalidBillingAnchorDay is returned when a credit card anchor day is outside 1-31.
	ErrInvalidBillingAnchorDay = errors.New("invalid billing anchor day")

	// ErrCardNameRequired is returned when the card name is empty.
	ErrCardNameRequired = errors.New("card name is required")

	// ErrCardNameTooLong is returned when the card name exceeds the maximum length.
	ErrCardNameTooLong = errors.New("card name too long")
)

// CardErrorCode defines error codes for card errors.
// Format: CRD-XXYYYY where XX is category and YYYY is specific error.
type CardErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCardType      CardErrorCode = "CRD-010001"
	ErrCodeInvalidBillingAnchor CardErrorCode = "CRD-010002"
	ErrCodeCardNameRequired     CardErrorCode = "CRD-010003"
	ErrCodeCardNameTooLong      CardErrorCode = "CRD-010004"
	ErrCodeMissingCardFields    CardErrorCode = "CRD-010005"

	// Lookup errors (02XXXX)
	ErrCodeCardNotFound      CardErrorCode = "CRD-020001"
	ErrCodeNotAuthorizedCard CardErrorCode = "CRD-020002"
)

// CardError represents a card error with code and message.
type CardError struct {
	Code    CardErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CardError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CardError) Unwrap() error {
	return e.Err
}

// NewCardError creates a new CardError with the given code and message.
func NewCardError(code CardErrorCode, message string, err error) *CardError {
	return &CardError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
