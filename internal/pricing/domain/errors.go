package domain

import "errors"

// ErrNotFound is returned by catalog stores for unknown codes.
var ErrNotFound = errors.New("not found")
