package typeplan_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-mapper/entity"
	"entity-mapper/typeplan"
)

type Audit struct {
	CreatedAt time.Time
	CreatedBy string
}

type Customer struct {
	ID   int64 `mapper:",key"`
	Name string
}

type Line struct {
	Order int64  `mapper:",key"`
	No    int    `mapper:",key"`
	SKU   string `mapper:"Product"`
}

type Order struct {
	Audit

	ID       uuid.UUID `mapper:",key"`
	Customer *Customer
	Lines    []Line `mapper:",owned"`
	Tags     []string
	Attrs    map[string]string
	Scores   map[int]float64
	Payload  []byte
	Note     string `mapper:"-"`
	internal int
}

type Money struct {
	Amount   int64
	Currency string
}

type opaque struct{ n int }

type withFunc struct {
	Callback func()
}

func TestResolveKinds(t *testing.T) {
	c := typeplan.New()

	tests := []struct {
		typ  reflect.Type
		kind typeplan.KindEnum
	}{
		{reflect.TypeFor[int](), typeplan.KindScalar},
		{reflect.TypeFor[*string](), typeplan.KindScalar},
		{reflect.TypeFor[time.Time](), typeplan.KindScalar},
		{reflect.TypeFor[time.Duration](), typeplan.KindScalar},
		{reflect.TypeFor[[]byte](), typeplan.KindScalar},
		{reflect.TypeFor[uuid.UUID](), typeplan.KindScalar},
		{reflect.TypeFor[map[int]float64](), typeplan.KindScalar},
		{reflect.TypeFor[any](), typeplan.KindScalar},
		{reflect.TypeFor[opaque](), typeplan.KindScalar},
		{reflect.TypeFor[map[string]int](), typeplan.KindDictionary},
		{reflect.TypeFor[[]string](), typeplan.KindCollection},
		{reflect.TypeFor[[3]int](), typeplan.KindCollection},
		{reflect.TypeFor[Money](), typeplan.KindComplex},
		{reflect.TypeFor[**Money](), typeplan.KindComplex},
		{reflect.TypeFor[Customer](), typeplan.KindEntity},
		{reflect.TypeFor[*Order](), typeplan.KindEntity},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			p, err := c.Resolve(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind)
			assert.NotEqual(t, reflect.Pointer, p.Type.Kind())
		})
	}
}

func TestResolveUnresolved(t *testing.T) {
	c := typeplan.New()

	for _, typ := range []reflect.Type{
		reflect.TypeFor[func()](),
		reflect.TypeFor[chan int](),
		reflect.TypeFor[unsafe.Pointer](),
	} {
		_, err := c.Resolve(typ)
		require.ErrorIs(t, err, typeplan.ErrUnresolvedType)

		var unresolved *typeplan.UnresolvedTypeError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, typ, unresolved.Type)
	}

	_, err := c.Resolve(nil)
	require.ErrorIs(t, err, typeplan.ErrNilType)
}

func TestEntityPlan(t *testing.T) {
	c := typeplan.New()

	p, err := c.Resolve(reflect.TypeFor[Order]())
	require.NoError(t, err)

	require.Len(t, p.Keys, 1)
	assert.Equal(t, "ID", p.Keys[0].Name)

	names := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"CreatedAt", "CreatedBy", "ID", "Customer", "Lines", "Tags", "Attrs", "Scores", "Payload", "Note"}, names)

	lines, ok := p.Member("Lines")
	require.True(t, ok)
	assert.True(t, lines.Owned)

	note, _ := p.Member("Note")
	assert.True(t, note.Ignored)

	created, _ := p.Member("CreatedAt")
	assert.Equal(t, []int{0, 0}, created.Index)

	lp, err := c.Resolve(reflect.TypeFor[Line]())
	require.NoError(t, err)
	assert.Len(t, lp.Keys, 2)

	sku, _ := lp.Member("SKU")
	assert.Equal(t, "Product", sku.Pair)

	key, err := lp.KeyOf(reflect.ValueOf(&Line{Order: 1, No: 2}))
	require.NoError(t, err)
	assert.Equal(t, entity.NewKey(int64(1), 2), key)
}

func TestEntityMarker(t *testing.T) {
	r := entity.NewRegistry()
	entity.Mark[Money](r, "Currency")
	r.Mark(reflect.TypeFor[Audit](), "Missing")

	c := typeplan.New(typeplan.WithMarker(entity.Chain{r, entity.TagMarker{}}))

	p, err := c.Resolve(reflect.TypeFor[Money]())
	require.NoError(t, err)
	assert.True(t, p.IsEntity())

	_, err = c.Resolve(reflect.TypeFor[Audit]())
	require.ErrorIs(t, err, typeplan.ErrInvalidEntity)

	p, err = c.Resolve(reflect.TypeFor[Customer]())
	require.NoError(t, err)
	assert.True(t, p.IsEntity())

	c = typeplan.New(typeplan.WithMarker(nil))
	p, err = c.Resolve(reflect.TypeFor[Customer]())
	require.NoError(t, err)
	assert.Equal(t, typeplan.KindComplex, p.Kind)
}

func TestPrependWins(t *testing.T) {
	var calls int

	asScalar := typeplan.FactoryFunc(func(_ *typeplan.Classifier, t reflect.Type) (*typeplan.Plan, error) {
		calls++
		if t != reflect.TypeFor[Money]() {
			return nil, nil
		}

		return &typeplan.Plan{Kind: typeplan.KindScalar, Type: t}, nil
	})

	c := typeplan.New()
	c.Prepend(asScalar)

	p, err := c.Resolve(reflect.TypeFor[Money]())
	require.NoError(t, err)
	assert.Equal(t, typeplan.KindScalar, p.Kind)

	p2, err := c.Resolve(reflect.TypeFor[*Money]())
	require.NoError(t, err)
	assert.Same(t, p, p2)
	assert.Equal(t, 1, calls, "plans are cached")
}

func TestResolveConcurrent(t *testing.T) {
	var (
		mu    sync.Mutex
		built []*typeplan.Plan
	)

	c := typeplan.New(typeplan.WithBuildHook(func(p *typeplan.Plan) {
		mu.Lock()
		defer mu.Unlock()
		built = append(built, p)
	}))

	const workers = 16
	plans := make([]*typeplan.Plan, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := c.Resolve(reflect.TypeFor[Order]())
			assert.NoError(t, err)
			plans[i] = p
		}()
	}
	wg.Wait()

	for _, p := range plans {
		assert.Same(t, plans[0], p)
	}
	assert.Len(t, built, 1)
	assert.Same(t, plans[0], built[0])
}

func TestWarm(t *testing.T) {
	c := typeplan.New()
	require.NoError(t, c.Warm(reflect.TypeFor[*Order]()))

	// Order, time.Time, string, uuid.UUID, Customer, int64, []Line, Line, int,
	// []string, map[string]string, map[int]float64, []byte
	assert.Equal(t, 13, c.Len())

	err := typeplan.New().Warm(reflect.TypeFor[withFunc]())
	require.ErrorIs(t, err, typeplan.ErrUnresolvedType)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "KindEntity", typeplan.KindEntity.String())
	assert.Equal(t, "KindEnum(0)", typeplan.KindEnum(0).String())
	assert.True(t, typeplan.KindComplex.HasMembers())
	assert.False(t, typeplan.KindCollection.HasMembers())
}
