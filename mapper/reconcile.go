package mapper

import (
	"reflect"
	"strconv"

	"entity-mapper/entity"
	"entity-mapper/typeplan"
)

// reconcile maps a sequence. Entity elements are matched by key, everything else
// is replaced position by position.
func (w *walker) reconcile(path string, src, dst reflect.Value, t reflect.Type, assoc bool) (reflect.Value, error) {
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return reflect.Value{}, shapeMismatch(path, t, src.Type(), nil)
	}

	if t.Kind() == reflect.Array {
		return w.positional(path, src, dst, t, assoc)
	}

	if src.Kind() == reflect.Slice && src.IsNil() {
		return reflect.Zero(t), nil
	}

	p, err := w.m.classifier.Resolve(t.Elem())
	if err != nil {
		return reflect.Value{}, wrapPath(path, err)
	}

	if p.IsEntity() {
		return w.byKey(path, src, dst, t, p, assoc)
	}

	return w.positional(path, src, dst, t, assoc)
}

// positional rebuilds the target from the source elements. Arrays keep their length
// and only the first min(len(src), len(dst)) elements are mapped.
func (w *walker) positional(path string, src, dst reflect.Value, t reflect.Type, assoc bool) (reflect.Value, error) {
	n := src.Len()

	var res reflect.Value
	if t.Kind() == reflect.Array {
		res = reflect.New(t).Elem()
		if dst.IsValid() {
			res.Set(dst)
		}

		n = min(n, t.Len())
	} else {
		res = reflect.MakeSlice(t, n, n)
	}

	for i := range n {
		var existing reflect.Value
		if dst.IsValid() && i < dst.Len() {
			existing = dst.Index(i)
		}

		v, err := w.value(indexPath(path, i), src.Index(i), existing, t.Elem(), assoc)
		if err != nil {
			return reflect.Value{}, err
		}

		res.Index(i).Set(v)
	}

	return res, nil
}

// byKey reconciles a slice of entities. The result follows source order; target
// elements missing from the source are dropped and, unless the collection only
// holds references, registered for removal.
func (w *walker) byKey(path string, src, dst reflect.Value, t reflect.Type, p *typeplan.Plan, assoc bool) (reflect.Value, error) {
	var (
		index = make(map[entity.Key]reflect.Value)
		order []entity.Key
	)

	if dst.IsValid() {
		for i := range dst.Len() {
			el := dst.Index(i)
			if isNil(el) {
				continue
			}

			k, err := p.KeyOf(el)
			if err != nil {
				return reflect.Value{}, wrapPath(indexPath(path, i), err)
			}

			if k.IsZero() {
				continue
			}

			if prev, dup := index[k]; dup {
				return reflect.Value{}, &KeyConflictError{
					Path:     indexPath(path, i),
					Type:     p.Type,
					Key:      k,
					Existing: instancePointer(prev).Interface(),
					Incoming: instancePointer(el).Interface(),
				}
			}

			index[k] = el
			order = append(order, k)
		}
	}

	res := reflect.MakeSlice(t, 0, src.Len())
	seen := make(map[entity.Key]bool, src.Len())

	for i := range src.Len() {
		se := src.Index(i)
		elemPath := indexPath(path, i)

		var existing reflect.Value
		if sv := deref(se); !isNil(se) && sv.Kind() == reflect.Struct {
			k, _, err := w.sourceKey(elemPath, sv, p)
			if err != nil {
				return reflect.Value{}, err
			}

			if !k.IsZero() {
				existing = index[k]
				seen[k] = true
			}
		}

		v, err := w.value(elemPath, se, existing, t.Elem(), assoc)
		if err != nil {
			return reflect.Value{}, err
		}

		res = reflect.Append(res, v)
	}

	for _, k := range order {
		if seen[k] || assoc {
			continue
		}

		// still reachable elsewhere in the graph
		if _, ok := w.ctx.TryGetEntry(p.Type, k); ok {
			continue
		}

		if _, err := w.register(path, p, k, index[k], ActionRemove); err != nil {
			return reflect.Value{}, err
		}
	}

	return res, nil
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
