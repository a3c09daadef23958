package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameFull          = errors.New("no colors available, game full")
	ErrUnknownGameType   = errors.New("unknown game type")

	ErrNotFound        = errors.New("not found")
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrConflict is retryable: the session changed underneath the caller or its lock could not be taken in time.
	ErrConflict = errors.New("concurrent modification, retry")

	ErrInvalidMove       = errors.New("invalid move")
	ErrInvalidSuggestion = errors.New("invalid suggestion")
)

// RegistrationError - a seat could not be granted.
type RegistrationError struct {
	Reason string
	Err    error
}

func (that *RegistrationError) Error() string {
	if that.Err == nil {
		return "registration failed: " + that.Reason
	}
	return fmt.Sprintf("registration failed: %s: %v", that.Reason, that.Err)
}

func (that *RegistrationError) Unwrap() error {
	return that.Err
}

// InvalidMoveError carries the reason the rules rejected a move.
type InvalidMoveError struct {
	Reason string
	Err    error
}

func (that *InvalidMoveError) Error() string {
	return fmt.Sprintf("%v: %s", that.Err, that.Reason)
}

func (that *InvalidMoveError) Unwrap() error {
	return that.Err
}
