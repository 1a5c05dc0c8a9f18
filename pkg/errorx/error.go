package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// Unknown is returned when an internal failure should not leak its cause to
// the caller. The real error must be logged at the call site.
var Unknown = Error{Code: Internal, Message: "Request failed"}
