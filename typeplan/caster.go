package typeplan

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"entity-mapper/internal/common"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// Caster is a user supplied scalar conversion function.
type Caster struct {
	Src, Dst reflect.Type
	// PkgPath, PackageAlias and Name identify the function in errors and log events.
	PkgPath      string
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if fn == nil || fnVal.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Pointer && src.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Caster{}, ErrDoublePointer
	}

	caster := Caster{Src: src, Dst: dst, fn: fnVal}

	if fnPC := runtime.FuncForPC(fnVal.Pointer()); fnPC != nil {
		dir, base := path.Split(fnPC.Name())
		if alias, name, ok := strings.Cut(base, "."); ok {
			caster.PkgPath = dir + alias
			caster.PackageAlias = alias
			caster.Name = name
		}
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// Call converts src and returns a value of the pointer-stripped Dst type.
// ok is false when the caster declined the value; the target must stay unchanged.
func (c Caster) Call(src reflect.Value) (res reflect.Value, ok bool, err error) {
	in, ok := adapt(src, c.Src)
	if !ok {
		return reflect.Value{}, false, nil
	}

	out := c.fn.Call([]reflect.Value{in})

	ok = true
	if c.HasBool {
		ok = out[1].Bool()
	}

	if c.HasErr {
		if callErr, _ := out[len(out)-1].Interface().(error); callErr != nil {
			return reflect.Value{}, false, fmt.Errorf("%s: %w", c, callErr)
		}
	}

	if !ok {
		return reflect.Value{}, false, nil
	}

	res = out[0]
	if res.Kind() == reflect.Pointer {
		if res.IsNil() {
			return reflect.Zero(c.Dst.Elem()), true, nil
		}

		res = res.Elem()
	}

	return res, true, nil
}

func (c Caster) String() string {
	if c.Name == "" {
		return fmt.Sprintf("caster(%s -> %s)", c.Src, c.Dst)
	}

	return c.PkgPath + "." + c.Name
}

// adapt brings v to the caster input type, adding or removing one pointer level.
func adapt(v reflect.Value, want reflect.Type) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer && want.Kind() != reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	if want.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}

	if v.Type() != want && v.Type().ConvertibleTo(want) {
		v = v.Convert(want)
	}

	return v, true
}

func isError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}

// ConverterFactory claims the destination types of the given casters as Scalar
// plans carrying those casters. Several casters may share a destination type
// as long as their source types differ.
func ConverterFactory(casters ...any) (Factory, error) {
	byDst := make(map[reflect.Type]map[reflect.Type]Caster)

	for _, fn := range casters {
		c, err := ParseCaster(fn)
		if err != nil {
			return nil, fmt.Errorf("%T: %w", fn, err)
		}

		dst, src := common.BaseType(c.Dst), common.BaseType(c.Src)
		if byDst[dst] == nil {
			byDst[dst] = make(map[reflect.Type]Caster)
		}

		if prev, exists := byDst[dst][src]; exists {
			return nil, fmt.Errorf("casters %s and %s both convert %s to %s", prev, c, src, dst)
		}

		byDst[dst][src] = c
	}

	return FactoryFunc(func(_ *Classifier, t reflect.Type) (*Plan, error) {
		set, ok := byDst[t]
		if !ok {
			return nil, nil
		}

		return &Plan{Kind: KindScalar, Type: t, Converters: set}, nil
	}), nil
}
