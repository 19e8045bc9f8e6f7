package entities

import "errors"

var (
	// ErrInvalidNode is wrapped by every method node validation failure
	ErrInvalidNode = errors.New("invalid method node")
	// ErrInvalidOperation is wrapped by every operation validation failure
	ErrInvalidOperation = errors.New("invalid operation")
)
