package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInvalidID        = errors.New("invalid ID format")
	ErrTeamNotRated     = errors.New("team has no rating for requested week")
	ErrMissingScore     = errors.New("game has no final score")
	ErrMissingPlayField = errors.New("play record missing required field")
)
