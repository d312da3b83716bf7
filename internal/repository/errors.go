package repository

import "errors"

// ErrNotFound is returned when a row or blob does not exist.
var ErrNotFound = errors.New("not found")
