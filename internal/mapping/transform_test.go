package mapping

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-mapper/options"
	"entity-mapper/primitive"
	"entity-mapper/store"
	"entity-mapper/warehouse"
)

func TestApplyOptions(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	opts, err := f.ApplyOptions(options.Default())
	require.NoError(t, err)

	assert.Equal(t, options.UpdateSkipZero, opts.Update)
	assert.Equal(t, primitive.CategorySafeNumber|primitive.CategoryTextNumber, opts.Conversions)
	assert.True(t, opts.AutoMatch)
	assert.InDelta(t, 0.7, opts.MinNameScore, 1e-9)

	empty := &File{}
	opts, err = empty.ApplyOptions(options.Default())
	require.NoError(t, err)
	assert.Equal(t, options.Default(), opts)

	var none *File
	opts, err = none.ApplyOptions(options.Default())
	require.NoError(t, err)
	assert.Equal(t, options.Default(), opts)

	bad := &File{Options: &OptionsDef{Update: "merge"}}
	_, err = bad.ApplyOptions(options.Default())
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	r := f.Registry()
	assert.Equal(t, 2, r.Len())

	d, ok := r.Describe(reflect.TypeFor[warehouse.Customer]())
	require.True(t, ok)
	assert.Equal(t, []string{"ID"}, d.Keys)

	d, ok = r.Describe(reflect.TypeFor[*warehouse.OrderLine]())
	require.True(t, ok)
	assert.Equal(t, []string{"OrderID", "LineNo"}, d.Keys)

	_, ok = r.Describe(reflect.TypeFor[warehouse.Order]())
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	tm, ok := f.Lookup(reflect.TypeFor[store.Order](), reflect.TypeFor[warehouse.Order]())
	require.True(t, ok)
	assert.Equal(t, "store.Order", tm.Source)

	_, ok = f.Lookup(reflect.TypeFor[warehouse.Order](), reflect.TypeFor[store.Order]())
	assert.False(t, ok)

	var none *File
	_, ok = none.Lookup(reflect.TypeFor[store.Order](), reflect.TypeFor[warehouse.Order]())
	assert.False(t, ok)
}
