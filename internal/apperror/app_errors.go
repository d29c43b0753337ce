package apperror

import "errors"

var (
	ErrInvalidPayload  = errors.New("client did not send a payload")
	ErrNotRegistered   = errors.New("command came from an unregistered player")
	ErrTargetNotInRoom = errors.New("the requested user is no longer in the room")
	ErrWrongTurn       = errors.New("played the wrong color, it's not their turn")
	ErrWrongPlayer     = errors.New("played the right color, but by the wrong player")
	ErrGameNotFound    = errors.New("no valid game associated with the command")
	ErrInternal        = errors.New("server internal error joining room")
)
