package newsletter

import "errors"

// Error codes surfaced to API consumers.
const (
	CodeAlreadyRegistered = "already_registered"
	CodeInvalidRequest    = "invalid_request"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeUnavailable       = "unavailable"
	CodeInternal          = "internal_error"
)

// Error is a business-rule failure. Description is safe to show to clients
// and to log: it never carries a subscriber or admin token.
type Error struct {
	Code        string
	Description string
}

func (e *Error) Error() string { return e.Description }

// Sentinel errors for the newsletter service layer. Adapters wrap their
// underlying cause with %w so errors.Is keeps matching.
var (
	ErrAlreadyRegistered = &Error{Code: CodeAlreadyRegistered, Description: "the user is already registered"}
	ErrInvalidEmail      = &Error{Code: CodeInvalidRequest, Description: "an email address is required"}
	ErrNotFound          = &Error{Code: CodeNotFound, Description: "the email isn't registered in the newsletter"}
	ErrForbidden         = &Error{Code: CodeForbidden, Description: "you are not authorized to remove this email"}
	ErrInvalidAdminToken = &Error{Code: CodeForbidden, Description: "admin token is invalid"}
	ErrUnavailable       = &Error{Code: CodeUnavailable, Description: "the service is temporarily unavailable"}
	ErrInternal          = &Error{Code: CodeInternal, Description: "the operation failed"}
)

// AsError returns the business error carried by err. Anything that is not a
// business error is reported as ErrInternal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}
