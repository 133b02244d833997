package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Conflict class: the write collides with existing state.
	ErrDuplicatePrediction = errors.New("prediction already submitted for this game")
	ErrAlreadyVerified     = errors.New("game is already verified")

	// Precondition class: the clock gates the operation.
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started yet")
)
