package mapper_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-mapper/entity"
	"entity-mapper/mapper"
	"entity-mapper/store"
	"entity-mapper/warehouse"
)

var dumper = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newMapper(t *testing.T, opts ...mapper.Option) *mapper.Mapper {
	t.Helper()

	m, err := mapper.New(opts...)
	require.NoError(t, err)

	return m
}

func sampleOrder() *store.Order {
	return &store.Order{
		ID:       10,
		Number:   "SO-10",
		Status:   store.StatusPaid,
		Customer: &store.Customer{ID: 1, Email: "ann@example.com", FullName: "Ann"},
		Lines: []store.OrderLine{
			{OrderID: 10, LineNo: 1, Product: &store.Product{ID: 5, SKU: "P-5", Name: "Pen"}, Quantity: 2, UnitPrice: 150},
			{OrderID: 10, LineNo: 2, Product: &store.Product{ID: 6, SKU: "P-6", Name: "Ink"}, Quantity: 1, UnitPrice: 900},
		},
		Attributes:      map[string]string{"gift": "yes"},
		Tags:            []string{"web"},
		ShippingAddress: &store.Address{Street: "Main 1", City: "Oslo", Country: "NO"},
		PlacedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		InternalNote:    "call first",
	}
}

// entries renders the context for failure messages.
func entries(ctx *mapper.Context) string {
	lines := make([]string, 0, ctx.Len())
	for _, e := range ctx.Entries() {
		lines = append(lines, e.String())
	}

	return dumper.Sdump(lines)
}

func countType(ctx *mapper.Context, t reflect.Type) int {
	n := 0

	for _, e := range ctx.Entries() {
		if e.Type == t {
			n++
		}
	}

	return n
}

func TestMapNewOrder(t *testing.T) {
	m := newMapper(t)
	ctx := mapper.NewContext()

	res, err := mapper.Map(m, sampleOrder(), (*warehouse.Order)(nil), ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.ID)
	assert.Equal(t, "SO-10", res.Number)
	assert.Equal(t, "PAID", res.Status)
	assert.Equal(t, map[string]string{"gift": "yes"}, res.Attributes)
	assert.Equal(t, []string{"web"}, res.Tags)
	assert.Equal(t, warehouse.Address{Street: "Main 1", City: "Oslo", Country: "NO"}, res.ShippingAddress)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), res.PlacedAt)
	assert.Zero(t, res.Revision)

	// associated customer: key only
	require.NotNil(t, res.Customer)
	assert.Equal(t, warehouse.Customer{ID: 1}, *res.Customer)

	require.Len(t, res.Lines, 2)
	assert.Equal(t, int64(10), res.Lines[0].OrderID)
	assert.Equal(t, 2, res.Lines[0].Quantity)
	assert.Equal(t, &warehouse.Product{ID: 5}, res.Lines[0].Product)
	assert.Equal(t, int64(900), res.Lines[1].UnitPrice)

	assert.Equal(t, 3, ctx.Count(mapper.ActionAdd), entries(ctx))
	assert.Equal(t, 3, ctx.Count(mapper.ActionAttach), entries(ctx))

	e, ok := ctx.TryGetEntry(orderType, entity.NewKey(int64(10)))
	require.True(t, ok)
	assert.Same(t, res, e.Instance())
	assert.Equal(t, mapper.ActionAdd, e.Action)

	// the root entity is registered before its members
	assert.Equal(t, orderType, ctx.Entries()[0].Type)
}

func TestMapIdempotent(t *testing.T) {
	m := newMapper(t)
	src := sampleOrder()
	target := &warehouse.Order{ID: 10, Revision: 4}

	first, err := mapper.Map(m, src, target, nil)
	require.NoError(t, err)
	require.Same(t, target, first)

	snapshot := dumper.Sdump(first)

	ctx := mapper.NewContext()
	second, err := mapper.Map(m, src, first, ctx)
	require.NoError(t, err)
	require.Same(t, target, second)

	assert.Equal(t, snapshot, dumper.Sdump(second))
	assert.Equal(t, 4, second.Revision)

	// everything is known now: the order and its lines are updated, nothing else
	assert.Equal(t, 3, ctx.Count(mapper.ActionUpdate), entries(ctx))
	assert.Equal(t, 3, ctx.Len(), entries(ctx))
}

func TestMapIdentityDedup(t *testing.T) {
	m := newMapper(t)
	src := sampleOrder()
	src.Lines[1].Product = &store.Product{ID: 5, Name: "Pen again"}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, src, (*warehouse.Order)(nil), ctx)
	require.NoError(t, err)

	assert.Same(t, res.Lines[0].Product, res.Lines[1].Product)
	assert.Equal(t, 1, countType(ctx, productType), entries(ctx))
}

func TestMapAssociatedKeyMatch(t *testing.T) {
	m := newMapper(t)
	existing := &warehouse.Customer{ID: 1, Name: "t"}
	target := &warehouse.Order{ID: 10, Customer: existing}

	src := &store.Order{ID: 10, Customer: &store.Customer{ID: 1, FullName: "s"}}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, src, target, ctx)
	require.NoError(t, err)

	assert.Same(t, existing, res.Customer)
	assert.Equal(t, warehouse.Customer{ID: 1, Name: "t"}, *res.Customer)

	_, ok := ctx.TryGetEntry(customerType, entity.NewKey(int64(1)))
	assert.False(t, ok)
	assert.Zero(t, countType(ctx, customerType), entries(ctx))
}

func TestMapAssociatedKeyMismatch(t *testing.T) {
	m := newMapper(t)
	existing := &warehouse.Customer{ID: 1, Name: "t"}
	target := &warehouse.Order{ID: 10, Customer: existing}

	src := &store.Order{ID: 10, Customer: &store.Customer{ID: 2, FullName: "s"}}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, src, target, ctx)
	require.NoError(t, err)

	require.NotSame(t, existing, res.Customer)
	assert.Equal(t, warehouse.Customer{ID: 2}, *res.Customer)
	assert.Equal(t, warehouse.Customer{ID: 1, Name: "t"}, *existing)

	e, ok := ctx.TryGetEntry(customerType, entity.NewKey(int64(2)))
	require.True(t, ok, entries(ctx))
	assert.Equal(t, mapper.ActionAttach, e.Action)
	assert.Same(t, res.Customer, e.Instance())

	_, ok = ctx.TryGetEntry(customerType, entity.NewKey(int64(1)))
	assert.False(t, ok)
}

func TestMapAssociatedNilTarget(t *testing.T) {
	m := newMapper(t)
	target := &warehouse.Order{ID: 10}
	src := &store.Order{ID: 10, Customer: &store.Customer{ID: 2, FullName: "s"}}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, src, target, ctx)
	require.NoError(t, err)

	require.NotNil(t, res.Customer)
	assert.Equal(t, warehouse.Customer{ID: 2}, *res.Customer)

	e, ok := ctx.TryGetEntry(customerType, entity.NewKey(int64(2)))
	require.True(t, ok)
	assert.Equal(t, mapper.ActionAttach, e.Action)
}

func TestMapAssociatedNilSource(t *testing.T) {
	m := newMapper(t)
	target := &warehouse.Order{ID: 10, Customer: &warehouse.Customer{ID: 1}}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, &store.Order{ID: 10}, target, ctx)
	require.NoError(t, err)

	assert.Nil(t, res.Customer)
	assert.Zero(t, countType(ctx, customerType))
}

func TestMapCollectionReconcile(t *testing.T) {
	m := newMapper(t)

	line1 := &warehouse.OrderLine{OrderID: 10, LineNo: 1, Quantity: 1}
	line2 := &warehouse.OrderLine{OrderID: 10, LineNo: 2, Quantity: 1}
	target := &warehouse.Order{ID: 10, Lines: []*warehouse.OrderLine{line1, line2}}

	src := &store.Order{ID: 10, Lines: []store.OrderLine{
		{OrderID: 10, LineNo: 1, Quantity: 5},
		{OrderID: 10, LineNo: 3, Quantity: 7},
	}}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, src, target, ctx)
	require.NoError(t, err)

	require.Len(t, res.Lines, 2)
	assert.Same(t, line1, res.Lines[0])
	assert.Equal(t, 5, res.Lines[0].Quantity)
	assert.Equal(t, 3, res.Lines[1].LineNo)
	assert.Equal(t, 7, res.Lines[1].Quantity)

	actions := map[int]mapper.Action{}
	for _, e := range ctx.Entries() {
		if e.Type == lineType {
			actions[e.Key.Part(1).(int)] = e.Action
		}
	}

	assert.Equal(t, map[int]mapper.Action{
		1: mapper.ActionUpdate,
		2: mapper.ActionRemove,
		3: mapper.ActionAdd,
	}, actions, entries(ctx))

	removed, ok := ctx.TryGetEntry(lineType, entity.NewKey(int64(10), 2))
	require.True(t, ok)
	assert.Same(t, line2, removed.Instance())
}

func TestMapAssociatedCollection(t *testing.T) {
	m := newMapper(t)
	kept := &warehouse.Order{ID: 11, Number: "SO-11"}
	dropped := &warehouse.Order{ID: 12, Number: "SO-12"}
	target := &warehouse.Customer{ID: 1, Orders: []*warehouse.Order{kept, dropped}}

	src := &store.Customer{ID: 1, FullName: "Ann", Orders: []*store.Order{
		{ID: 13, Number: "SO-13"},
		{ID: 11, Number: "changed"},
	}}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, src, target, ctx)
	require.NoError(t, err)

	assert.Equal(t, "Ann", res.Name)
	require.Len(t, res.Orders, 2)
	assert.Equal(t, &warehouse.Order{ID: 13}, res.Orders[0])
	assert.Same(t, kept, res.Orders[1])
	assert.Equal(t, "SO-11", kept.Number)

	attached, ok := ctx.TryGetEntry(orderType, entity.NewKey(int64(13)))
	require.True(t, ok)
	assert.Equal(t, mapper.ActionAttach, attached.Action)

	_, ok = ctx.TryGetEntry(orderType, entity.NewKey(int64(12)))
	assert.False(t, ok, entries(ctx))
	assert.Zero(t, ctx.Count(mapper.ActionRemove))
}

func TestMapDictionaryMerge(t *testing.T) {
	m := newMapper(t)
	attrs := map[string]string{"b": "9", "c": "3"}
	target := &warehouse.Order{ID: 10, Attributes: attrs}

	src := &store.Order{ID: 10, Attributes: map[string]string{"a": "1", "b": "2"}}

	res, err := mapper.Map(m, src, target, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, res.Attributes)
	assert.Equal(t, res.Attributes, attrs)
}

func TestMapNilCollections(t *testing.T) {
	m := newMapper(t)
	target := &warehouse.Order{
		ID:         10,
		Tags:       []string{"old"},
		Attributes: map[string]string{"x": "y"},
		Lines:      []*warehouse.OrderLine{{OrderID: 10, LineNo: 1}},
	}

	ctx := mapper.NewContext()
	res, err := mapper.Map(m, &store.Order{ID: 10, Tags: []string{}}, target, ctx)
	require.NoError(t, err)

	assert.NotNil(t, res.Tags)
	assert.Empty(t, res.Tags)
	assert.Nil(t, res.Attributes)
	assert.Nil(t, res.Lines)

	// a nil source collection replaces the target without reconciling it
	assert.Zero(t, ctx.Count(mapper.ActionRemove))
}

func TestMapValueTarget(t *testing.T) {
	m := newMapper(t)

	res, err := mapper.Map(m, store.Address{Street: "Main 1", City: "Oslo"}, warehouse.Address{Country: "NO"}, nil)
	require.NoError(t, err)
	assert.Equal(t, warehouse.Address{Street: "Main 1", City: "Oslo"}, res)

	var line warehouse.OrderLine
	require.NoError(t, m.MapInto(&store.OrderLine{OrderID: 3, LineNo: 4, Quantity: 2}, &line, nil))
	assert.Equal(t, warehouse.OrderLine{OrderID: 3, LineNo: 4, Quantity: 2}, line)

	untyped, err := m.Map(&store.Product{ID: 5, SKU: "P-5", PriceCents: 250}, (*warehouse.Product)(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, &warehouse.Product{ID: 5, SKU: "P-5", Price: 250}, untyped)
}

func TestMapInterfaceTarget(t *testing.T) {
	m := newMapper(t)
	src := &store.Address{Street: "Main 1"}

	res, err := mapper.Map[any](m, src, nil, nil)
	require.NoError(t, err)

	addr, ok := res.(*store.Address)
	require.True(t, ok)
	assert.NotSame(t, src, addr)
	assert.Equal(t, src, addr)
}

func TestMapArguments(t *testing.T) {
	m := newMapper(t)

	_, err := m.Map(&store.Order{}, nil, nil)
	require.ErrorIs(t, err, mapper.ErrUntypedTarget)

	_, err = mapper.Map(m, nil, (*warehouse.Order)(nil), nil)
	require.ErrorIs(t, err, mapper.ErrNilSource)

	_, err = mapper.Map(m, (*store.Order)(nil), (*warehouse.Order)(nil), nil)
	require.ErrorIs(t, err, mapper.ErrNilSource)

	err = m.MapInto(&store.Order{}, warehouse.Order{}, nil)
	require.ErrorIs(t, err, mapper.ErrInvalidTarget)
}
