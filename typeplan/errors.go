package typeplan

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrUnresolvedType = errors.New("type cannot be mapped")
	ErrInvalidEntity  = errors.New("invalid entity description")
)

// UnresolvedTypeError reports a type no factory claimed and no fallback can handle.
type UnresolvedTypeError struct {
	Type reflect.Type
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("%v: %s (%s)", ErrUnresolvedType, e.Type, e.Type.Kind())
}

func (e *UnresolvedTypeError) Unwrap() error { return ErrUnresolvedType }
