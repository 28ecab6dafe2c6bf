package mapper

import (
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
	"entity-mapper/options"
	"entity-mapper/primitive"
	"entity-mapper/typeplan"
)

// walker carries the state of one mapping call.
type walker struct {
	m   *Mapper
	ctx *Context
	log zerolog.Logger
}

// value maps src onto dst, the existing target value of type t (possibly invalid),
// and returns the new value of type t. assoc marks entities reached through this
// value as associated references.
func (w *walker) value(path string, src, dst reflect.Value, t reflect.Type, assoc bool) (reflect.Value, error) {
	for src.IsValid() && src.Kind() == reflect.Interface {
		src = src.Elem()
	}

	switch t.Kind() {
	case reflect.Interface:
		return w.iface(path, src, dst, t, assoc)
	case reflect.Pointer:
		if isNil(src) {
			return reflect.Zero(t), nil
		}

		var cur reflect.Value
		if dst.IsValid() && !dst.IsNil() {
			cur = dst
		}

		return w.pointer(path, deref(src), cur, t, assoc, true)
	}

	if isNil(src) && src.Kind() != reflect.Map && src.Kind() != reflect.Slice {
		return reflect.Zero(t), nil
	}

	src = deref(src)

	p, err := w.m.classifier.Resolve(t)
	if err != nil {
		return reflect.Value{}, wrapPath(path, err)
	}

	switch p.Kind {
	case typeplan.KindComplex, typeplan.KindEntity:
		ptr := reflect.New(t)
		if dst.IsValid() {
			ptr.Elem().Set(dst)
		}

		res, err := w.pointer(path, src, ptr, ptr.Type(), assoc, false)
		if err != nil {
			return reflect.Value{}, err
		}

		return res.Elem(), nil
	case typeplan.KindDictionary:
		return w.dictionary(path, src, dst, t, assoc)
	case typeplan.KindCollection:
		return w.reconcile(path, src, dst, t, assoc)
	default:
		return w.scalar(path, src, dst, t, p)
	}
}

// pointer maps src (a non-pointer value) onto cur, a pointer of type t or invalid.
// Struct targets are updated in place so instance identity survives. shared is
// false when cur is a scratch copy of a value target.
func (w *walker) pointer(path string, src, cur reflect.Value, t reflect.Type, assoc, shared bool) (reflect.Value, error) {
	elem := t.Elem()

	p, err := w.m.classifier.Resolve(elem)
	if err != nil {
		return reflect.Value{}, wrapPath(path, err)
	}

	if elem.Kind() != reflect.Pointer {
		switch p.Kind {
		case typeplan.KindEntity:
			if err := expectStruct(path, src, elem); err != nil {
				return reflect.Value{}, err
			}

			if assoc {
				return w.associated(path, src, cur, p)
			}

			return w.owned(path, src, cur, p, shared)
		case typeplan.KindComplex:
			if err := expectStruct(path, src, elem); err != nil {
				return reflect.Value{}, err
			}

			if !cur.IsValid() {
				cur = reflect.New(elem)
			}

			if err := w.members(path, src, cur.Elem(), p); err != nil {
				return reflect.Value{}, err
			}

			return cur, nil
		}
	}

	var existing reflect.Value
	if cur.IsValid() {
		existing = cur.Elem()
	}

	v, err := w.value(path, src, existing, elem, assoc)
	if err != nil {
		return reflect.Value{}, err
	}

	if !cur.IsValid() {
		cur = reflect.New(elem)
	}

	cur.Elem().Set(v)

	return cur, nil
}

// iface maps onto an interface typed target. An existing struct value keeps its
// type and is mapped in place; any other existing value is replaced by a value of
// the source type.
func (w *walker) iface(path string, src, dst reflect.Value, t reflect.Type, assoc bool) (reflect.Value, error) {
	if isNil(src) && src.Kind() != reflect.Map && src.Kind() != reflect.Slice {
		return reflect.Zero(t), nil
	}

	var existing reflect.Value
	if dst.IsValid() && !dst.IsNil() {
		existing = dst.Elem()
	}

	dyn := src.Type()
	if existing.IsValid() && keepsType(existing.Type(), dyn) {
		dyn = existing.Type()
	} else {
		existing = reflect.Value{}
	}

	if !dyn.Implements(t) {
		return reflect.Value{}, shapeMismatch(path, t, dyn, nil)
	}

	v, err := w.value(path, src, existing, dyn, assoc)
	if err != nil {
		return reflect.Value{}, err
	}

	res := reflect.New(t).Elem()
	res.Set(v)

	return res, nil
}

// members maps every bound member of src onto dst, an addressable struct of p.Type.
func (w *walker) members(path string, src, dst reflect.Value, p *typeplan.Plan) error {
	pair, err := w.m.pair(src.Type(), p.Type)
	if err != nil {
		return wrapPath(path, err)
	}

	skipZero := w.m.opts.Update == options.UpdateSkipZero

	for i := range pair.Bindings {
		b := &pair.Bindings[i]
		field := dst.FieldByIndex(b.Target.Index)
		memberPath := path + "." + b.Target.Name

		sv, ok := b.Read(src)
		if !ok || isNil(sv) && sv.Kind() != reflect.Map && sv.Kind() != reflect.Slice {
			if !skipZero {
				field.Set(reflect.Zero(field.Type()))
			}

			continue
		}

		if skipZero && sv.IsZero() {
			continue
		}

		assoc, err := w.associates(b.Target.Type, b.Associated, b.Owned)
		if err != nil {
			return wrapPath(memberPath, err)
		}

		v, err := w.value(memberPath, sv, field, field.Type(), assoc)
		if err != nil {
			return err
		}

		field.Set(v)
	}

	return nil
}

// associates decides whether entities under a member of type t are associated
// references. Single entities default to associated, containers of entities to owned.
func (w *walker) associates(t reflect.Type, associated, owned bool) (bool, error) {
	p, err := w.m.classifier.Resolve(t)
	if err != nil {
		return false, err
	}

	if p.IsEntity() {
		return !owned, nil
	}

	return associated, nil
}

// owned maps an entity that this path owns: the root value, an owned member or
// a collection element.
func (w *walker) owned(path string, src, cur reflect.Value, p *typeplan.Plan, shared bool) (reflect.Value, error) {
	key, _, err := w.sourceKey(path, src, p)
	if err != nil {
		return reflect.Value{}, err
	}

	var curKey entity.Key
	if cur.IsValid() {
		if curKey, err = p.KeyOf(cur); err != nil {
			return reflect.Value{}, wrapPath(path, err)
		}
	}

	if e, ok := w.ctx.TryGetEntry(p.Type, key); ok {
		// two instances of the caller's graph share an identity
		if shared && cur.IsValid() && curKey == key && !e.allocated && !sameInstance(e.Target, cur) {
			return reflect.Value{}, &KeyConflictError{
				Path:     path,
				Type:     p.Type,
				Key:      key,
				Existing: e.Instance(),
				Incoming: cur.Interface(),
			}
		}

		// first reached as a reference or a dropped element: copy the fields once
		if e.Action == ActionAttach || e.Action == ActionRemove {
			e.Action = ActionUpdate
			w.decided(path, e)

			if err := w.members(path, src, e.Target.Elem(), p); err != nil {
				return reflect.Value{}, err
			}
		}

		return e.Target, nil
	}

	target, action, allocated := cur, ActionUpdate, !shared

	switch {
	case key.IsZero():
		action = ActionAdd
		if !cur.IsValid() {
			target, allocated = reflect.New(p.Type), true
		}
	case !cur.IsValid() || curKey != key:
		target, action, allocated = reflect.New(p.Type), ActionAdd, true
	}

	e, err := w.register(path, p, key, target, action)
	if err != nil {
		return reflect.Value{}, err
	}

	e.allocated = allocated

	if err := w.members(path, src, target.Elem(), p); err != nil {
		return reflect.Value{}, err
	}

	return target, nil
}

// associated maps a reference to an entity this path does not own. Only key
// members are ever copied.
func (w *walker) associated(path string, src, cur reflect.Value, p *typeplan.Plan) (reflect.Value, error) {
	key, values, err := w.sourceKey(path, src, p)
	if err != nil {
		return reflect.Value{}, err
	}

	// a reference to a new entity carries the entity itself
	if key.IsZero() {
		return w.owned(path, src, reflect.Value{}, p, false)
	}

	if cur.IsValid() {
		curKey, err := p.KeyOf(cur)
		if err != nil {
			return reflect.Value{}, wrapPath(path, err)
		}

		if curKey == key {
			return cur, nil
		}
	}

	if e, ok := w.ctx.TryGetEntry(p.Type, key); ok {
		return e.Target, nil
	}

	target := reflect.New(p.Type)
	for i, k := range p.Keys {
		target.Elem().FieldByIndex(k.Index).Set(values[i])
	}

	e, err := w.register(path, p, key, target, ActionAttach)
	if err != nil {
		return reflect.Value{}, err
	}

	e.allocated = true

	return target, nil
}

// sourceKey reads the key of src in the key member types of the target plan.
func (w *walker) sourceKey(path string, src reflect.Value, p *typeplan.Plan) (entity.Key, []reflect.Value, error) {
	pair, err := w.m.pair(src.Type(), p.Type)
	if err != nil {
		return entity.Key{}, nil, wrapPath(path, err)
	}

	values := make([]reflect.Value, len(p.Keys))

	for i, k := range p.Keys {
		values[i] = reflect.Zero(k.Type)

		b, ok := pair.Binding(k.Name)
		if !ok {
			continue
		}

		sv, ok := b.Read(src)
		if !ok {
			continue
		}

		v, err := w.value(path+"."+k.Name, sv, reflect.Value{}, k.Type, false)
		if err != nil {
			return entity.Key{}, nil, err
		}

		values[i] = v
	}

	key, err := entity.KeyOf(values...)
	if err != nil {
		return entity.Key{}, nil, wrapPath(path, err)
	}

	return key, values, nil
}

func (w *walker) register(path string, p *typeplan.Plan, key entity.Key, target reflect.Value, action Action) (*Entry, error) {
	prev, existed := w.ctx.TryGetEntry(p.Type, key)

	var prevAction Action
	if existed {
		prevAction = prev.Action
	}

	e, err := w.ctx.Register(p.Type, key, target, action)
	if err != nil {
		var conflict *KeyConflictError
		if errors.As(err, &conflict) {
			conflict.Path = path
		}

		return nil, err
	}

	if !existed || e.Action != prevAction {
		w.decided(path, e)
	}

	return e, nil
}

func (w *walker) decided(path string, e *Entry) {
	w.m.metrics.RecordAction(e.Action.String())
	w.log.Debug().
		Str("path", path).
		Str("type", common.ShortTypeName(e.Type)).
		Stringer("key", e.Key).
		Stringer("action", e.Action).
		Msg("entity")
}

// scalar assigns or converts src to t.
func (w *walker) scalar(path string, src, dst reflect.Value, t reflect.Type, p *typeplan.Plan) (reflect.Value, error) {
	if c, ok := p.Converter(src.Type()); ok {
		res, ok, err := c.Call(src)
		if err != nil {
			return reflect.Value{}, wrapPath(path, err)
		}

		w.log.Trace().
			Str("path", path).
			Stringer("converter", c).
			Bool("declined", !ok).
			Msg("converted")

		if !ok {
			if dst.IsValid() {
				return dst, nil
			}

			return reflect.Zero(t), nil
		}

		return res, nil
	}

	res, err := primitive.Convert(src, t, w.m.opts.Conversions)
	if err != nil {
		if errors.Is(err, primitive.ErrNotConvertible) {
			return reflect.Value{}, shapeMismatch(path, t, src.Type(), err)
		}

		return reflect.Value{}, wrapPath(path, err)
	}

	return res, nil
}

// keepsType reports whether a source of type src is mapped onto an existing
// interface value of type cur rather than replacing it.
func keepsType(cur, src reflect.Type) bool {
	if cur == src {
		return true
	}

	return common.BaseType(cur).Kind() == reflect.Struct && common.BaseType(src).Kind() == reflect.Struct
}

func expectStruct(path string, src reflect.Value, t reflect.Type) error {
	if src.Kind() != reflect.Struct {
		return shapeMismatch(path, t, src.Type(), nil)
	}

	return nil
}

func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}

	return v
}
