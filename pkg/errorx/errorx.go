package errorx

import "fmt"

// Error is the only error type domains are allowed to return to the router.
// Anything else is collapsed to Unknown at the boundary.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// NewWithDetails attaches structured details (field attribution, identifiers)
// to the error envelope sent to the client.
func NewWithDetails(code Code, details map[string]any, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...), Details: details}
}
