package errors

import "fmt"

// Completion tiers named in CompletionError
const (
	TierTypeParameters = "type-parameters"
	TierFull           = "full"
)

// CompletionError wraps a failure of the completer while populating a lazy
// declaration. The declaration stays claimed and is never completed again.
type CompletionError struct {
	Code        ErrorCode `json:"code"`
	Declaration string    `json:"declaration"`
	Tier        string    `json:"tier"`
	Cause       string    `json:"cause"`
	Err         error     `json:"-"`
}

// NewCompletionError creates a CMP001 error
func NewCompletionError(declaration, tier string, err error) *CompletionError {
	cause := ""
	if err != nil {
		cause = err.Error()
	}
	return &CompletionError{
		Code:        ErrCompletionFailed,
		Declaration: declaration,
		Tier:        tier,
		Cause:       cause,
		Err:         err,
	}
}

// Error implements the error interface
func (e *CompletionError) Error() string {
	return fmt.Sprintf("failed to complete %s of %s: %v", e.Tier, e.Declaration, e.Err)
}

// Unwrap returns the completer failure
func (e *CompletionError) Unwrap() error { return e.Err }

// ErrorCode returns the error code
func (e *CompletionError) ErrorCode() ErrorCode { return e.Code }

// ErrorCategory returns CategoryCompletion
func (e *CompletionError) ErrorCategory() ErrorCategory { return CategoryCompletion }
