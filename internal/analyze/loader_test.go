package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSamples(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer("").LoadPackages("entity-mapper/store", "entity-mapper/warehouse")
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadSamples(t)

	assert.Contains(t, graph.Packages, "entity-mapper/store")
	assert.Contains(t, graph.Packages, "entity-mapper/warehouse")

	assert.Contains(t, graph.Types, TypeID{PkgPath: "entity-mapper/store", Name: "Order"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: "entity-mapper/warehouse", Name: "Order"})
}

func TestAnalyzer_StoreOrderFields(t *testing.T) {
	graph := loadSamples(t)

	order := graph.GetType(TypeID{PkgPath: "entity-mapper/store", Name: "Order"})
	require.NotNil(t, order)
	assert.Equal(t, TypeKindStruct, order.Kind)

	for _, name := range []string{"ID", "Number", "Status", "Customer", "Lines", "Attributes", "PlacedAt"} {
		_, ok := order.Field(name)
		assert.True(t, ok, "Order should have %s field", name)
	}

	lines, _ := order.Field("Lines")
	assert.Equal(t, TypeKindSlice, lines.Type.Kind)
	assert.Equal(t, TypeKindStruct, lines.Type.ElemType.Kind)

	customer, _ := order.Field("Customer")
	assert.Equal(t, TypeKindPointer, customer.Type.Kind)
	assert.Equal(t, TypeID{PkgPath: "entity-mapper/store", Name: "Customer"}, customer.Type.Base().ID)

	attrs, _ := order.Field("Attributes")
	assert.Equal(t, TypeKindMap, attrs.Type.Kind)
	assert.Equal(t, TypeKindBasic, attrs.Type.KeyType.Kind)

	placed, _ := order.Field("PlacedAt")
	assert.Equal(t, TypeKindExternal, placed.Type.Kind)

	status, _ := order.Field("Status")
	assert.Equal(t, TypeKindAlias, status.Type.Kind)
}

func TestAnalyzer_MapperTags(t *testing.T) {
	graph := loadSamples(t)

	customer, ok := graph.Find("warehouse.Customer")
	require.True(t, ok)

	name, ok := customer.Field("Name")
	require.True(t, ok)
	assert.Equal(t, "FullName", name.PairName())

	orders, _ := customer.Field("Orders")
	assert.True(t, orders.Options().Associated)

	id, _ := customer.Field("ID")
	assert.True(t, id.Options().Key)
	assert.Equal(t, "ID", id.PairName())
}

func TestTypeGraph_Find(t *testing.T) {
	graph := loadSamples(t)

	byPath, ok := graph.Find("entity-mapper/warehouse.Order")
	require.True(t, ok)

	byAlias, ok := graph.Find("warehouse.Order")
	require.True(t, ok)
	assert.Same(t, byPath, byAlias)

	_, ok = graph.Find("warehouse.Missing")
	assert.False(t, ok)

	_, ok = graph.Find("Order")
	assert.False(t, ok)
}

func TestTypeGraph_Entities(t *testing.T) {
	graph := loadSamples(t)

	assert.Equal(t, []EntityInfo{
		{ID: TypeID{PkgPath: "entity-mapper/warehouse", Name: "Customer"}, Keys: []string{"ID"}},
		{ID: TypeID{PkgPath: "entity-mapper/warehouse", Name: "Order"}, Keys: []string{"ID"}},
		{ID: TypeID{PkgPath: "entity-mapper/warehouse", Name: "OrderLine"}, Keys: []string{"OrderID", "LineNo"}},
		{ID: TypeID{PkgPath: "entity-mapper/warehouse", Name: "Product"}, Keys: []string{"ID"}},
	}, graph.Entities())
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: "entity-mapper/store", Name: "Order"}
	assert.Equal(t, "entity-mapper/store.Order", id.String())

	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "map", TypeKindMap.String())
	assert.Equal(t, "alias", TypeKindAlias.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}
