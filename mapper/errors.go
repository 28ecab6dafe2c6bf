package mapper

import (
	"errors"
	"fmt"
	"reflect"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
	"entity-mapper/typeplan"
)

var (
	ErrKeyConflict   = errors.New("entity key conflict")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrNilSource     = errors.New("source is nil")
	ErrUntypedTarget = errors.New("target type is unknown")
	ErrInvalidTarget = errors.New("target must be a non-nil pointer")

	// ErrUnresolvedType is returned for types no plan can describe.
	ErrUnresolvedType = typeplan.ErrUnresolvedType
)

// UnresolvedTypeError reports a type no factory could classify.
type UnresolvedTypeError = typeplan.UnresolvedTypeError

// KeyConflictError reports two distinct instances sharing one entity identity.
type KeyConflictError struct {
	Path     string
	Type     reflect.Type
	Key      entity.Key
	Existing any
	Incoming any
}

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s: existing %p, incoming %p",
		e.Path, common.ShortTypeName(e.Type), e.Key, e.Existing, e.Incoming)
}

func (e *KeyConflictError) Unwrap() error { return ErrKeyConflict }

// ShapeMismatchError reports a source or target value that does not fit the expected plan.
type ShapeMismatchError struct {
	Path     string
	Expected reflect.Type
	Actual   reflect.Type
	// Err is the conversion failure, if any.
	Err error
}

func (e *ShapeMismatchError) Error() string {
	msg := fmt.Sprintf("%s: %s: expected %s, got %s", e.Path, ErrShapeMismatch, e.Expected, e.Actual)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns both the sentinel and the conversion failure.
func (e *ShapeMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrShapeMismatch}
	}

	return []error{ErrShapeMismatch, e.Err}
}

func shapeMismatch(path string, expected, actual reflect.Type, err error) error {
	return &ShapeMismatchError{Path: path, Expected: expected, Actual: actual, Err: err}
}

func wrapPath(path string, err error) error {
	return fmt.Errorf("%s: %w", path, err)
}
