package apperrors

import "net/http"

// Code classifies a GameError.
type Code int

const (
	CodeValidation Code = iota + 1
	CodeNotFound
)

// GameError is a failure scoped to a single game operation.
type GameError struct {
	Code    Code
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is matches any GameError carrying the same code, so callers can test
// errors.Is(err, ErrNotFound) regardless of the message.
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// HTTPStatus maps the code to a response status.
func (e *GameError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Predefined errors
var (
	ErrValidation = &GameError{Code: CodeValidation, Message: "invalid input"}
	ErrNotFound   = &GameError{Code: CodeNotFound, Message: "not found"}

	ErrEmptyUsername = &GameError{Code: CodeValidation, Message: "Username cannot be empty"}
	ErrNoPlayer      = &GameError{Code: CodeNotFound, Message: "Player not found"}
	ErrNoActiveRound = &GameError{Code: CodeNotFound, Message: "No active round"}
)
