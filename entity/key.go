package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// MaxKeyParts is the maximum number of members a composite key may have.
const MaxKeyParts = 4

var (
	ErrKeyTooLong       = errors.New("entity key has too many parts")
	ErrKeyNotComparable = errors.New("entity key part is not comparable")
)

// Key is the ordered tuple of key member values of one entity instance.
//
// Key is comparable: two keys are equal when every part is equal by value and
// has the same dynamic type, so it can be used directly as a map key.
type Key struct {
	parts [MaxKeyParts]any
	n     int
}

// NewKey builds a key from parts. It panics when given more than MaxKeyParts
// parts or a non-comparable part; use KeyOf for checked construction.
func NewKey(parts ...any) Key {
	values := make([]reflect.Value, len(parts))
	for i, p := range parts {
		values[i] = reflect.ValueOf(p)
	}

	k, err := KeyOf(values...)
	if err != nil {
		panic(err)
	}

	return k
}

// KeyOf builds a key from reflected member values.
func KeyOf(values ...reflect.Value) (Key, error) {
	if len(values) > MaxKeyParts {
		return Key{}, fmt.Errorf("%w: %d > %d", ErrKeyTooLong, len(values), MaxKeyParts)
	}

	var k Key
	for i, v := range values {
		if !v.IsValid() {
			k.parts[i] = nil
			continue
		}

		if !v.Type().Comparable() {
			return Key{}, fmt.Errorf("%w: %s", ErrKeyNotComparable, v.Type())
		}

		k.parts[i] = v.Interface()
	}

	k.n = len(values)

	return k, nil
}

// Len returns the number of key parts.
func (k Key) Len() int { return k.n }

// Part returns the i-th part.
func (k Key) Part(i int) any { return k.parts[i] }

// Parts returns a copy of the key parts.
func (k Key) Parts() []any {
	return append([]any(nil), k.parts[:k.n]...)
}

// Equal reports whether both keys hold equal parts.
func (k Key) Equal(other Key) bool { return k == other }

// IsZero reports whether the key is empty or every part holds its zero value.
// Such a key belongs to a transient entity that has no identity yet.
func (k Key) IsZero() bool {
	for i := range k.n {
		if k.parts[i] != nil && !reflect.ValueOf(k.parts[i]).IsZero() {
			return false
		}
	}

	return true
}

// String renders the key as "(1)" or "(1, "a")".
func (k Key) String() string {
	parts := make([]string, k.n)
	for i := range k.n {
		parts[i] = fmt.Sprintf("%#v", k.parts[i])
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
