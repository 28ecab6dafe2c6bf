package primitive

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotConvertible = errors.New("scalar conversion is not allowed")
	ErrInvalidValue   = errors.New("value is not valid for target type")
)

type converterFunc func(src reflect.Value, dst reflect.Type) (reflect.Value, error)

var (
	converters map[ConversionPair]converterFunc

	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	validType    = reflect.TypeOf((*interface{ IsValid() bool })(nil)).Elem()
)

// Convert returns src converted to dst.
//
// Assignable and same-underlying-kind values are always converted. Everything else
// must belong to one of the allowed categories; values of dst types implementing
// IsValid() bool are checked after conversion.
func Convert(src reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Zero(dst), nil
	}

	srcType := src.Type()
	if srcType.AssignableTo(dst) {
		res := reflect.New(dst).Elem()
		res.Set(cloneBytes(src))

		return res, nil
	}

	if res, ok, err := convertEnum(src, dst, allowed); ok {
		return res, err
	}

	pair := ConversionPair{From: FromUnderlying(srcType), To: FromUnderlying(dst)}
	if pair.From == 0 || pair.To == 0 {
		if srcType.ConvertibleTo(dst) && srcType.Kind() == dst.Kind() {
			return cloneBytes(src).Convert(dst), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, srcType, dst)
	}

	if pair.From == pair.To {
		return validate(src.Convert(dst))
	}

	if !allowed.Allows(pair) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s (%s -> %s)", ErrNotConvertible, srcType, dst, pair.From, pair.To)
	}

	fn, ok := converters[pair]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, srcType, dst)
	}

	res, err := fn(src, dst)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s to %s: %w", srcType, dst, err)
	}

	return validate(res)
}

// convertEnum renders named non-string enums through their String method.
func convertEnum(src reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, bool, error) {
	if allowed&CategoryEnumString == 0 {
		return reflect.Value{}, false, nil
	}

	srcType := src.Type()
	if FromReflectType(srcType) != KindPrimitiveEnum || srcType.Kind() == reflect.String {
		return reflect.Value{}, false, nil
	}

	if dst.Kind() != reflect.String || !srcType.Implements(stringerType) {
		return reflect.Value{}, false, nil
	}

	text := src.Interface().(fmt.Stringer).String()
	res, err := validate(reflect.ValueOf(text).Convert(dst))

	return res, true, err
}

func validate(v reflect.Value) (reflect.Value, error) {
	if v.Type().Implements(validType) && !v.Interface().(interface{ IsValid() bool }).IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %v is not a valid %s", ErrInvalidValue, v.Interface(), v.Type())
	}

	return v, nil
}

func cloneBytes(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 || v.IsNil() {
		return v
	}

	res := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(res, v)

	return res
}

func setInt(dst reflect.Type, n int64) (reflect.Value, error) {
	res := reflect.New(dst).Elem()

	switch res.Kind() {
	default:
		return reflect.Value{}, fmt.Errorf("%s is not an integer type", dst)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if res.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, dst)
		}

		res.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || res.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, dst)
		}

		res.SetUint(uint64(n))
	}

	return res, nil
}

func asInt64(v reflect.Value) (int64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(1<<63-1) {
			return 0, fmt.Errorf("%d overflows int64", u)
		}

		return int64(u), nil
	default:
		return 0, fmt.Errorf("%s is not an integer", v.Type())
	}
}

func init() {
	converters = map[ConversionPair]converterFunc{}

	// CategorySafeNumber
	// CategoryUnsafeNumber
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(0); int(toKind) < KindTotal; toKind++ {
			if !toKind.IsNumber() {
				continue
			}

			converters[ConversionPair{fromKind, toKind}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
				return src.Convert(dst), nil
			}
		}
	}

	// CategoryTextNumber
	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		if !numberKind.IsNumber() {
			continue
		}

		converters[ConversionPair{numberKind, KindString}] = numberToString
		converters[ConversionPair{KindString, numberKind}] = stringToNumber
	}

	// CategoryNumericBool
	for kind := KindEnum(0); int(kind) < KindTotal; kind++ {
		if !kind.IsInteger() {
			continue
		}

		converters[ConversionPair{kind, KindBool}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
			n, err := asInt64(src)
			if err != nil {
				return reflect.Value{}, err
			}

			switch n {
			case 0:
				return reflect.ValueOf(false).Convert(dst), nil
			case 1:
				return reflect.ValueOf(true).Convert(dst), nil
			default:
				return reflect.Value{}, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %d", n)
			}
		}
		converters[ConversionPair{KindBool, kind}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
			if src.Bool() {
				return setInt(dst, 1)
			}

			return setInt(dst, 0)
		}
	}

	// CategoryTextualBool
	converters[ConversionPair{KindString, KindBool}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
		switch strings.ToLower(src.String()) {
		default:
			return reflect.Value{}, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got: %s", src.String())
		case "true", "yes", "on":
			return reflect.ValueOf(true).Convert(dst), nil
		case "false", "no", "off":
			return reflect.ValueOf(false).Convert(dst), nil
		}
	}
	converters[ConversionPair{KindBool, KindString}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
		return reflect.ValueOf(strconv.FormatBool(src.Bool())).Convert(dst), nil
	}

	// CategoryDatetime
	converters[ConversionPair{KindString, KindTime}] = func(src reflect.Value, _ reflect.Type) (reflect.Value, error) {
		t, err := time.Parse(time.RFC3339Nano, src.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(t), nil
	}
	converters[ConversionPair{KindTime, KindString}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
		t := src.Interface().(time.Time)
		return reflect.ValueOf(t.Format(time.RFC3339Nano)).Convert(dst), nil
	}

	// CategoryTimestamp, CategoryNanoseconds
	for kind := KindEnum(0); int(kind) < KindTotal; kind++ {
		if !kind.IsInteger() || kind == KindUint64 {
			continue
		}

		converters[ConversionPair{kind, KindTime}] = func(src reflect.Value, _ reflect.Type) (reflect.Value, error) {
			n, err := asInt64(src)
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(time.Unix(n, 0)), nil
		}
		converters[ConversionPair{kind, KindDuration}] = func(src reflect.Value, _ reflect.Type) (reflect.Value, error) {
			n, err := asInt64(src)
			if err != nil {
				return reflect.Value{}, err
			}

			return reflect.ValueOf(time.Duration(n)), nil
		}

		if kind.IsSigned() {
			converters[ConversionPair{KindTime, kind}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
				return setInt(dst, src.Interface().(time.Time).Unix())
			}
			converters[ConversionPair{KindDuration, kind}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
				return setInt(dst, src.Int())
			}
		}
	}

	// CategoryDuration
	converters[ConversionPair{KindString, KindDuration}] = func(src reflect.Value, _ reflect.Type) (reflect.Value, error) {
		d, err := time.ParseDuration(src.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(d), nil
	}
	converters[ConversionPair{KindDuration, KindString}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
		return reflect.ValueOf(time.Duration(src.Int()).String()).Convert(dst), nil
	}

	// CategorySeconds
	for _, kind := range []KindEnum{KindFloat32, KindFloat64} {
		converters[ConversionPair{kind, KindDuration}] = func(src reflect.Value, _ reflect.Type) (reflect.Value, error) {
			return reflect.ValueOf(time.Duration(src.Float() * float64(time.Second))), nil
		}
		converters[ConversionPair{KindDuration, kind}] = func(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
			return reflect.ValueOf(time.Duration(src.Int()).Seconds()).Convert(dst), nil
		}
	}
}

func numberToString(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	var text string

	switch kind := FromUnderlying(src.Type()); {
	case kind.IsSigned():
		text = strconv.FormatInt(src.Int(), 10)
	case kind.IsUnsigned():
		text = strconv.FormatUint(src.Uint(), 10)
	default:
		text = strconv.FormatFloat(src.Float(), 'f', -1, kind.Bits())
	}

	return reflect.ValueOf(text).Convert(dst), nil
}

func stringToNumber(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	kind := FromUnderlying(dst)
	text := src.String()
	res := reflect.New(dst).Elem()

	switch {
	case kind.IsSigned():
		n, err := strconv.ParseInt(text, 10, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetInt(n)
	case kind.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetUint(n)
	default:
		f, err := strconv.ParseFloat(text, kind.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetFloat(f)
	}

	return res, nil
}
