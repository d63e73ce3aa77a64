package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrOrderMismatch = NewDomainError("ORDER_MISMATCH", "Record belongs to a different order")
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrUnavailable   = NewDomainError("UPSTREAM_UNAVAILABLE", "Upstream collaborator unavailable")
)
