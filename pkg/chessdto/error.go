package chessdto

const (
	CodeIllegalMove   = "illegal_move"
	CodeInvalidSquare = "invalid_square"
	CodeRoomDenied    = "room_not_allowed"
	CodeGameNotFound  = "game_not_found"
	CodeInternal      = "internal"
)

// DomainError is a failure the chat user can act on. Err keeps the cause
// for errors.Is.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}

func (e DomainError) Unwrap() error { return e.Err }
