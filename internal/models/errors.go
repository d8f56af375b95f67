package models

import (
	"errors"
	"strings"
)

// ErrNotFound is wrapped by operations that reference an unknown catalog
// entry or entity.
var ErrNotFound = errors.New("not found")

// ValidationError lists every constraint an operation violated.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
