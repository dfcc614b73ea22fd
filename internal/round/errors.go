package round

import "errors"

var (
	ErrAlreadySolving = errors.New("round: solve already called")
	ErrDriverStarted  = errors.New("round: driver already started")
	ErrNoRound        = errors.New("round: driver has no current round")
)
