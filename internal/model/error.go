package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeInvalidArgument      = "INVALID_ARGUMENT"
	ErrCodeInvalidPromoSettings = "INVALID_PROMO_SETTINGS"
	ErrCodeInvalidURL           = "INVALID_URL"
	ErrCodeEmptyName            = "EMPTY_NAME"
	ErrCodeInvalidPosition      = "INVALID_POSITION"
	ErrCodeUnknownCategory      = "UNKNOWN_CATEGORY"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidArgument      = NewDomainError(ErrCodeInvalidArgument, "Requester id must not be empty")
	ErrInvalidPromoSettings = NewDomainError(ErrCodeInvalidPromoSettings, "Promo limit must be at least the issued count and the prefix must not be empty")
	ErrInvalidURL           = NewDomainError(ErrCodeInvalidURL, "Link must start with https://, http:// or tg://")
	ErrEmptyName            = NewDomainError(ErrCodeEmptyName, "Link name must not be empty")
	ErrInvalidPosition      = NewDomainError(ErrCodeInvalidPosition, "No link at that position")
	ErrUnknownCategory      = NewDomainError(ErrCodeUnknownCategory, "Unknown link category")
)

// ErrStorage marks failures of the document repository. Callers must not
// assume any mutation happened when they see it.
var ErrStorage = errors.New("storage failure")

// AsDomainError extracts a DomainError from err, if any.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
