package domain

import "errors"

// Ошибки бизнес-логики. The core never retries on its own; callers map
// these to transport statuses and decide their own retry policy.
var (
	ErrNotInSession     = errors.New("user is not in session")
	ErrAlreadyChosen    = errors.New("user has already chosen")
	ErrSessionExists    = errors.New("session already exists")
	ErrSessionNotFound  = errors.New("session not found")
	ErrLockContention   = errors.New("session is locked by another request")
	ErrSessionNotClosed = errors.New("session is not closed")
	ErrInvalidHand      = errors.New("undefined hand")
	ErrNotEnoughUsers   = errors.New("this game needs two or more users")
)
