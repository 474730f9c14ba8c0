package runtime

import "errors"

var (
	ErrMissingSignal = errors.New("required CI signal is not set")
	ErrInvalidSignal = errors.New("invalid CI signal")
)
