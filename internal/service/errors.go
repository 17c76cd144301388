package service

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrDuplicateName     = errors.New("player name already taken")
	ErrSamePlayer        = errors.New("cannot play against yourself")
	ErrTiedScore         = errors.New("scores cannot be tied - someone must win")
	ErrNegativeScore     = errors.New("scores cannot be negative")
	ErrBelowWinningScore = errors.New("winner must reach the winning score")
	ErrWinnerMismatch    = errors.New("winner does not match the higher score")
)
