package store

import "errors"

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")
