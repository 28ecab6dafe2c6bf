package common

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sample struct{}

func TestTypeNames(t *testing.T) {
	tests := []struct {
		name  string
		typ   reflect.Type
		short string
		full  string
	}{
		{"named", reflect.TypeFor[sample](), "common.sample", "entity-mapper/internal/common.sample"},
		{"pointer", reflect.TypeFor[**sample](), "common.sample", "entity-mapper/internal/common.sample"},
		{"builtin", reflect.TypeFor[int](), "int", "int"},
		{"external", reflect.TypeFor[time.Time](), "time.Time", "time.Time"},
		{"slice", reflect.TypeFor[[]int](), "[]int", "[]int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.short, ShortTypeName(tt.typ))
			assert.Equal(t, tt.full, FullTypeName(tt.typ))
		})
	}
}

func TestPkgAlias(t *testing.T) {
	assert.Empty(t, PkgAlias(""))
	assert.Equal(t, "warehouse", PkgAlias("entity-mapper/warehouse"))
}

func TestSlices(t *testing.T) {
	assert.True(t, IsEmpty([]int{}))
	assert.True(t, IsEmpty([]string(nil)))
	assert.False(t, IsEmpty([]int{1}))
}
