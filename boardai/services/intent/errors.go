package intent

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorMissingConfig ErrorCode = "MISSING_CONFIG"
	ErrorUpstream      ErrorCode = "UPSTREAM_ERROR"
	ErrorParse         ErrorCode = "PARSE_ERROR"
)

// Error is a classified intent failure. Message is what the HTTP caller
// sees; Err stays in the logs.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("intent: %s (%s)", e.Code, e.Message)
	}
	return fmt.Sprintf("intent: %s (%s): %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus maps the code onto the endpoint's status taxonomy.
func (e *Error) HTTPStatus() int {
	if e != nil && e.Code == ErrorInvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

const (
	MsgMessageRequired = "Message is required"
	MsgMessageTooLong  = "Message is too long"
	MsgMissingAPIKey   = "Gemini API key not configured"
	MsgUpstreamFailed  = "Failed to process request"
	MsgParseFailed     = "Failed to parse AI response"
	MsgInternalError   = "Internal server error"
)
