package domain

import "errors"

// Error kinds. Concrete failures wrap one of these with fmt.Errorf("%w: ...").
var (
	ErrPhase    = errors.New("phase error")
	ErrTurn     = errors.New("turn error")
	ErrLegality = errors.New("legality error")
	ErrState    = errors.New("state error")
	ErrConfig   = errors.New("config error")
)

// ErrorKind returns a stable name for the kind an error wraps, or "internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrPhase):
		return "phase"
	case errors.Is(err, ErrTurn):
		return "turn"
	case errors.Is(err, ErrLegality):
		return "legality"
	case errors.Is(err, ErrState):
		return "state"
	case errors.Is(err, ErrConfig):
		return "config"
	default:
		return "internal"
	}
}
