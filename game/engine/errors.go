package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
)

// UnknownDirectionError is returned when decoding a move token that is not recognised
type UnknownDirectionError struct {
	Token string
}

func (e *UnknownDirectionError) Error() string {
	return fmt.Sprintf("unknown direction %q", e.Token)
}
