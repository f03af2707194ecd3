package session

import "errors"

var (
	ErrNotFound        = errors.New("game not found")
	ErrNotParticipant  = errors.New("player is not part of this game")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidMove     = errors.New("invalid move")
	ErrAlreadyTerminal = errors.New("game already finished")
)

// ErrorCode maps a manager error to the code sent back to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrNotParticipant):
		return "NotParticipant"
	case errors.Is(err, ErrNotYourTurn):
		return "NotYourTurn"
	case errors.Is(err, ErrInvalidMove):
		return "InvalidMove"
	case errors.Is(err, ErrAlreadyTerminal):
		return "AlreadyTerminal"
	default:
		return "InternalError"
	}
}
