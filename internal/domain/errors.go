package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid record")
)

// ConflictError reports an entity whose natural key is already stored for
// the same patch.
type ConflictError struct {
	Kind  Kind
	Key   string
	Patch string
}

func (e *ConflictError) Error() string {
	if e.Kind == KindPatch {
		return fmt.Sprintf("Patch version %s already exists.", e.Patch)
	}
	return fmt.Sprintf("%s %s with patch version %s already exists.", e.Kind.Title(), e.Key, e.Patch)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ValidationError lists the fields that failed boundary validation.
type ValidationError struct {
	Kind   Kind
	Key    string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: invalid fields %v", e.Kind.Title(), e.Key, e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
