package mapper

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"entity-mapper/entity"
	"entity-mapper/internal/common"
	"entity-mapper/internal/mapping"
	"entity-mapper/internal/plan"
	"entity-mapper/internal/telemetry"
	"entity-mapper/options"
	"entity-mapper/typeplan"
	"entity-mapper/utils"
)

// Mapper maps source graphs onto target graphs. It is safe for concurrent use;
// each top-level call owns its Context.
type Mapper struct {
	classifier *typeplan.Classifier
	resolver   *plan.Resolver
	opts       options.Options
	logger     zerolog.Logger
	metrics    *telemetry.Metrics

	pairs sync.Map // pairKey -> *plan.TypePair
}

type pairKey struct {
	src, dst reflect.Type
}

type config struct {
	opts       *options.Options
	file       *mapping.File
	marker     entity.Marker
	factories  []typeplan.Factory
	converters []any
	logger     zerolog.Logger
	metrics    *telemetry.Metrics
}

// Option configures a Mapper.
type Option func(*config)

// WithOptions replaces the default options. A mapping file still overrides them.
func WithOptions(o options.Options) Option {
	return func(c *config) { c.opts = &o }
}

// WithConfig applies a mapping file: its entity marks, options and per pair rules.
func WithConfig(f *mapping.File) Option {
	return func(c *config) { c.file = f }
}

// WithMarker sets the entity marker. The default reads `mapper:",key"` tags.
func WithMarker(m entity.Marker) Option {
	return func(c *config) { c.marker = m }
}

// WithFactories adds classifier factories ahead of the built-in ones.
func WithFactories(f ...typeplan.Factory) Option {
	return func(c *config) { c.factories = append(c.factories, f...) }
}

// WithConverters adds custom scalar converters, see typeplan.ParseCaster for the accepted signatures.
func WithConverters(fns ...any) Option {
	return func(c *config) { c.converters = append(c.converters, fns...) }
}

// WithLogger sets the logger for lifecycle decisions (debug level).
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// New creates a Mapper.
func New(opts ...Option) (*Mapper, error) {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	base := options.Default()
	if cfg.opts != nil {
		base = *cfg.opts
	}

	o, err := cfg.file.ApplyOptions(base)
	if err != nil {
		return nil, fmt.Errorf("apply mapping options: %w", err)
	}

	if !utils.IsInRange(0, o.MinNameScore, 1) {
		return nil, fmt.Errorf("min name score %v is out of [0, 1]", o.MinNameScore)
	}

	var marker entity.Marker = entity.TagMarker{}
	if cfg.marker != nil {
		marker = cfg.marker
	}

	if cfg.file != nil && !common.IsEmpty(cfg.file.Entities) {
		marker = entity.Chain{cfg.file.Registry(), marker}
	}

	m := &Mapper{
		opts:    o,
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}

	m.classifier = typeplan.New(
		typeplan.WithMarker(marker),
		typeplan.WithFactories(cfg.factories...),
		typeplan.WithBuildHook(m.planBuilt),
	)

	if !common.IsEmpty(cfg.converters) {
		f, err := typeplan.ConverterFactory(cfg.converters...)
		if err != nil {
			return nil, err
		}

		m.classifier.Prepend(f)
	}

	m.resolver = plan.NewResolver(m.classifier, cfg.file, o)

	return m, nil
}

// Classifier returns the type plan cache of the mapper.
func (m *Mapper) Classifier() *typeplan.Classifier { return m.classifier }

// Options returns the effective options.
func (m *Mapper) Options() options.Options { return m.opts }

// Map maps source onto target and returns the result.
//
// target is the existing target value or a typed nil (e.g. (*warehouse.Order)(nil));
// its type selects the target plan. A nil ctx makes this a top-level call with its
// own context; a non-nil ctx joins an ongoing traversal.
func (m *Mapper) Map(source, target any, ctx *Context) (any, error) {
	if target == nil {
		return nil, ErrUntypedTarget
	}

	res, err := m.mapRoot(source, reflect.TypeOf(target), reflect.ValueOf(target), ctx)
	if err != nil {
		return nil, err
	}

	return res.Interface(), nil
}

// MapInto maps source onto the value targetPtr points to, in place.
func (m *Mapper) MapInto(source, targetPtr any, ctx *Context) error {
	p := reflect.ValueOf(targetPtr)
	if p.Kind() != reflect.Pointer || p.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, targetPtr)
	}

	res, err := m.mapRoot(source, p.Type().Elem(), p.Elem(), ctx)
	if err != nil {
		return err
	}

	p.Elem().Set(res)

	return nil
}

// Map is the typed form of Mapper.Map.
func Map[T any](m *Mapper, source any, target T, ctx *Context) (T, error) {
	var res T

	v, err := m.mapRoot(source, reflect.TypeFor[T](), reflect.ValueOf(&target).Elem(), ctx)
	if err != nil {
		return res, err
	}

	reflect.ValueOf(&res).Elem().Set(v)

	return res, nil
}

func (m *Mapper) mapRoot(source any, t reflect.Type, dst reflect.Value, ctx *Context) (res reflect.Value, err error) {
	src := reflect.ValueOf(source)
	if isNil(src) {
		return reflect.Value{}, ErrNilSource
	}

	if _, err := m.classifier.Resolve(src.Type()); err != nil {
		return reflect.Value{}, err
	}

	owned := ctx == nil
	if owned {
		ctx = NewContext()
	}

	w := &walker{
		m:   m,
		ctx: ctx,
		log: m.logger.With().Str("context_id", ctx.ID().String()).Logger(),
	}

	if owned {
		timer := telemetry.NewTimer()
		defer func() {
			m.metrics.RecordMap(err, timer.Duration())
			w.log.Debug().
				Err(err).
				Int("entries", ctx.Len()).
				Dur("duration", timer.Duration()).
				Msg("mapped")
		}()
	}

	return w.value(rootPath(t), src, dst, t, false)
}

// pair returns the cached member table of a source/target pair.
func (m *Mapper) pair(src, dst reflect.Type) (*plan.TypePair, error) {
	key := pairKey{src, dst}
	if p, ok := m.pairs.Load(key); ok {
		return p.(*plan.TypePair), nil
	}

	p, err := m.resolver.Resolve(src, dst)
	if err != nil {
		return nil, err
	}

	if _, loaded := m.pairs.LoadOrStore(key, p); !loaded {
		for _, d := range p.Diagnostics.All() {
			m.logger.Debug().
				Str("pair", p.String()).
				Str("severity", d.Severity.String()).
				Str("code", string(d.Code)).
				Str("member", d.FieldPath).
				Msg(d.Message)
		}
	}

	return p, nil
}

func (m *Mapper) planBuilt(p *typeplan.Plan) {
	m.metrics.RecordPlanBuild(p.Kind.String())
	m.logger.Trace().Stringer("plan", p).Msg("plan built")
}

func rootPath(t reflect.Type) string {
	t = common.BaseType(t)
	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
