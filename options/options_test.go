package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-mapper/options"
	"entity-mapper/primitive"
)

func TestParseUpdateMode(t *testing.T) {
	mode, err := options.ParseUpdateMode("")
	require.NoError(t, err)
	assert.Equal(t, options.UpdateOverwrite, mode)

	mode, err = options.ParseUpdateMode("skip_zero")
	require.NoError(t, err)
	assert.Equal(t, options.UpdateSkipZero, mode)
	assert.Equal(t, "skip_zero", mode.String())

	_, err = options.ParseUpdateMode("merge")
	assert.Error(t, err)
	assert.Equal(t, "unknown", options.UpdateModeEnum(9).String())
}

func TestDefault(t *testing.T) {
	opts := options.Default()
	assert.Equal(t, primitive.CategoryDefault, opts.Conversions)
	assert.Equal(t, options.UpdateOverwrite, opts.Update)
	assert.False(t, opts.AutoMatch)
}
