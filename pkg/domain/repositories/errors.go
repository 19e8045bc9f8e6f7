package repositories

import "errors"

// ErrNotFound is wrapped when a requested item or make method is unknown
var ErrNotFound = errors.New("not found")
