package driver

import "errors"

var (
	ErrDriverNotFound   = errors.New("driver not found")
	ErrDriverCodeExists = errors.New("driver code already exists")
	ErrDriverInactive   = errors.New("driver is inactive")
)
