package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-mapper/internal/diagnostic"
)

func codes(ds []diagnostic.Diagnostic) []string {
	res := make([]string, 0, len(ds))
	for _, d := range ds {
		res = append(res, string(d.Code))
	}

	return res
}

func TestValidateSample(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	diags := Validate(f)
	assert.True(t, diags.IsValid(), diags.Error())
	assert.Empty(t, diags.Warnings)
}

func TestValidateNil(t *testing.T) {
	diags := Validate(nil)
	assert.Equal(t, []string{"mapping_is_nil"}, codes(diags.Errors))
}

func TestValidateStructure(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{
			name: "bad version",
			yaml: `version: "2"`,
			code: "invalid_value",
		},
		{
			name: "bad update mode",
			yaml: "options:\n  update: merge\n",
			code: "invalid_value",
		},
		{
			name: "score out of range",
			yaml: "options:\n  min_name_score: 1.5\n",
			code: "invalid_value",
		},
		{
			name: "unknown conversion",
			yaml: "options:\n  conversions: [teleport]\n",
			code: "invalid_conversion",
		},
		{
			name: "entity without keys",
			yaml: "entities:\n  - type: warehouse.Order\n",
			code: "invalid_value",
		},
		{
			name: "too many keys",
			yaml: "entities:\n  - type: warehouse.Order\n    keys: [A, B, C, D, E]\n",
			code: "invalid_value",
		},
		{
			name: "duplicate entity",
			yaml: "entities:\n  - {type: a.B, keys: ID}\n  - {type: a.B, keys: ID}\n",
			code: "duplicate_entity",
		},
		{
			name: "duplicate key",
			yaml: "entities:\n  - {type: a.B, keys: [ID, ID]}\n",
			code: "duplicate_key",
		},
		{
			name: "missing target type",
			yaml: "mappings:\n  - source: a.B\n",
			code: "invalid_value",
		},
		{
			name: "duplicate mapping",
			yaml: "mappings:\n  - {source: a.B, target: c.D}\n  - {source: a.B, target: c.D}\n",
			code: "duplicate_mapping",
		},
		{
			name: "121 target twice",
			yaml: "mappings:\n  - source: a.B\n    target: c.D\n    121: {X: Z, Y: Z}\n",
			code: "duplicate_target",
		},
		{
			name: "bad source path",
			yaml: "mappings:\n  - source: a.B\n    target: c.D\n    fields:\n      - {target: Z, source: 'X..Y'}\n",
			code: "invalid_path",
		},
		{
			name: "nested target",
			yaml: "mappings:\n  - source: a.B\n    target: c.D\n    ignore: [X.Y]\n",
			code: "nested_target",
		},
		{
			name: "associated and owned",
			yaml: "mappings:\n  - source: a.B\n    target: c.D\n    associated: [X]\n    owned: [X]\n",
			code: "association_conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			diags := Validate(f)
			assert.Contains(t, codes(diags.Errors), tt.code, diags.Error())
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	f, err := Parse([]byte(`
mappings:
  - source: a.B
    target: c.D
    121: {X: Z}
    fields:
      - {target: Z, source: Y}
    ignore: [Z]
`))
	require.NoError(t, err)

	diags := Validate(f)
	assert.True(t, diags.IsValid(), diags.Error())
	assert.ElementsMatch(t, []string{"shadowed_field", "ignored_mapped"}, codes(diags.Warnings))
}
