package mapper

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// dictionary merges src into dst: source keys are upserted, other target keys deleted.
// A non-nil target map is modified in place.
func (w *walker) dictionary(path string, src, dst reflect.Value, t reflect.Type, assoc bool) (reflect.Value, error) {
	if src.Kind() != reflect.Map {
		return reflect.Value{}, shapeMismatch(path, t, src.Type(), nil)
	}

	if src.IsNil() {
		return reflect.Zero(t), nil
	}

	res := dst
	if !res.IsValid() || res.IsNil() {
		res = reflect.MakeMapWithSize(t, src.Len())
	}

	keys := src.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})

	keep := make(map[any]struct{}, len(keys))

	for _, sk := range keys {
		keyPath := fmt.Sprintf("%s[%q]", path, fmt.Sprint(sk.Interface()))

		k, err := w.value(keyPath, sk, reflect.Value{}, t.Key(), false)
		if err != nil {
			return reflect.Value{}, err
		}

		v, err := w.value(keyPath, src.MapIndex(sk), res.MapIndex(k), t.Elem(), assoc)
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetMapIndex(k, v)
		keep[k.Interface()] = struct{}{}
	}

	for _, k := range res.MapKeys() {
		if _, ok := keep[k.Interface()]; !ok {
			res.SetMapIndex(k, reflect.Value{})
		}
	}

	return res, nil
}
