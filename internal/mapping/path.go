package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidPath = errors.New("invalid member path")

// ParsePath splits a dotted member path ("Customer.Address.City") into member names.
func ParsePath(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parts := strings.Split(s, ".")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !isIdent(p) {
			return nil, fmt.Errorf("%w: %q: segment %d %q is not an identifier", ErrInvalidPath, s, i, p)
		}

		parts[i] = p
	}

	return parts, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
