package domain

// Error is a sentinel domain error carrying a stable machine code.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable identifier used in structured logs.
func (e *Error) Code() string { return e.code }

var (
	// ErrNotFound indicates the requested entity, template, or history entry is absent.
	ErrNotFound = &Error{code: "NOT_FOUND", msg: "entity not found"}

	// ErrInvalidState indicates a state transition attempted from the wrong state.
	ErrInvalidState = &Error{code: "INVALID_STATE", msg: "invalid state transition"}

	// ErrEmptyInput indicates blank required text.
	ErrEmptyInput = &Error{code: "EMPTY_INPUT", msg: "required text is empty"}

	// ErrDeliveryFailed indicates an outbound notification exhausted its retries.
	ErrDeliveryFailed = &Error{code: "DELIVERY_FAILED", msg: "notification delivery failed"}
)
