package response

import "errors"

// Error is a domain error that already knows its HTTP status code.
// Handlers match these with errors.Is and translate them verbatim, so
// services never import fiber.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by code and message, which lets sentinel values created
// with NewError survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, message string) error {
	return &Error{Code: code, Err: errors.New(message)}
}
