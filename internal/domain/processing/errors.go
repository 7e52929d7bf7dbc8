package processing

import "errors"

var (
	ErrLogNotFound    = errors.New("processing log not found")
	ErrLogTerminal    = errors.New("processing log is terminal and cannot be updated")
	ErrInvalidProcess = errors.New("invalid process type")
)
