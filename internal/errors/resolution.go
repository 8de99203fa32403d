package errors

import "fmt"

// ResolutionError reports a syntactically valid name that cannot be
// resolved, or that resolves to the wrong kind of entity.
type ResolutionError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Name      string    `json:"name"`
	Qualifier string    `json:"qualifier,omitempty"`
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return e.Message
}

// ErrorCode returns the error code
func (e *ResolutionError) ErrorCode() ErrorCode { return e.Code }

// ErrorCategory returns CategoryResolution
func (e *ResolutionError) ErrorCategory() ErrorCategory { return CategoryResolution }

// NewNotFound creates a RES001 error
func NewNotFound(name string) *ResolutionError {
	return &ResolutionError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("Could not find type '%s'", name),
		Name:    name,
	}
}

// NewNotAType creates a RES002 error
func NewNotAType(name string) *ResolutionError {
	return &ResolutionError{
		Code:    ErrNotAType,
		Message: fmt.Sprintf("Type is a declaration (should be a Type): '%s'", name),
		Name:    name,
	}
}

// NewMemberNotFound creates a RES003 error
func NewMemberNotFound(name, qualifier string) *ResolutionError {
	return &ResolutionError{
		Code:      ErrMemberNotFound,
		Message:   fmt.Sprintf("Failed to resolve inner type or declaration %s in %s", name, qualifier),
		Name:      name,
		Qualifier: qualifier,
	}
}

// NewInvalidName creates a RES004 error
func NewInvalidName(name, reason string) *ResolutionError {
	return &ResolutionError{
		Code:    ErrInvalidName,
		Message: fmt.Sprintf("Invalid name '%s': %s", name, reason),
		Name:    name,
	}
}
