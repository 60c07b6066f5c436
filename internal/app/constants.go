package app

import (
	"errors"
	"fmt"

	"wakeng/internal/domain"
)

// App-level failures. Each wraps a domain kind so transports can classify it
// with domain.ErrorKind.
var (
	ErrNotHost       = fmt.Errorf("%w: actor is not the room host", domain.ErrState)
	ErrGameActive    = fmt.Errorf("%w: a game is already running", domain.ErrState)
	ErrNoGame        = fmt.Errorf("%w: no game in this room", domain.ErrPhase)
	ErrUnknownSeat   = fmt.Errorf("%w: seat is not occupied", domain.ErrTurn)
	ErrRoomNotFull   = fmt.Errorf("%w: every seat must be taken to start", domain.ErrState)
	ErrSeatTaken     = fmt.Errorf("%w: seat is already taken", domain.ErrState)
	ErrStaleDecision = fmt.Errorf("%w: decision was computed from an older state", domain.ErrState)
	ErrRoomNotFound  = errors.New("room not found")
)

// DefaultMultiplier is applied when a settlement times out without the host
// choosing one.
const DefaultMultiplier = 1
