// Package options holds the knobs that change how a mapping is performed.
package options

import (
	"fmt"

	"entity-mapper/internal/common"
	"entity-mapper/primitive"
)

// UpdateModeEnum decides how members of an existing target are refreshed.
type UpdateModeEnum int

const (
	// UpdateOverwrite copies every bound member from source to target.
	UpdateOverwrite UpdateModeEnum = iota
	// UpdateSkipZero leaves a target member untouched when the source member holds its zero value.
	UpdateSkipZero
)

// String returns the configuration name of the mode.
func (m UpdateModeEnum) String() string {
	switch m {
	case UpdateOverwrite:
		return "overwrite"
	case UpdateSkipZero:
		return "skip_zero"
	default:
		return common.UnknownStr
	}
}

// ParseUpdateMode parses a configuration name; empty means UpdateOverwrite.
func ParseUpdateMode(s string) (UpdateModeEnum, error) {
	switch s {
	case "", "overwrite":
		return UpdateOverwrite, nil
	case "skip_zero":
		return UpdateSkipZero, nil
	default:
		return UpdateOverwrite, fmt.Errorf("unknown update mode %q", s)
	}
}

// Options is the resolved engine configuration.
type Options struct {
	// Conversions lists the scalar conversion families the walker may apply.
	Conversions primitive.CategoryEnum
	// Update selects full or partial member refresh of existing targets.
	Update UpdateModeEnum
	// AutoMatch pairs differently named members by fuzzy name similarity.
	AutoMatch bool
	// MinNameScore is the minimum normalized name similarity for an auto-match.
	MinNameScore float64
}

// Default returns lossless conversions, full overwrite and exact-name pairing only.
func Default() Options {
	return Options{
		Conversions:  primitive.CategoryDefault,
		Update:       UpdateOverwrite,
		AutoMatch:    false,
		MinNameScore: 0.85,
	}
}
