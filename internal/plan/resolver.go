package plan

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"entity-mapper/internal/diagnostic"
	"entity-mapper/internal/mapping"
	"entity-mapper/internal/match"
	"entity-mapper/options"
	"entity-mapper/typeplan"
)

var ErrNotStruct = errors.New("type has no members to bind")

// maxSuggestions is the number of candidates listed for an unmapped member.
const maxSuggestions = 3

// Resolver builds member tables for type pairs.
type Resolver struct {
	classifier *typeplan.Classifier
	file       *mapping.File
	opts       options.Options
}

// NewResolver creates a Resolver. file may be nil.
func NewResolver(c *typeplan.Classifier, file *mapping.File, opts options.Options) *Resolver {
	return &Resolver{classifier: c, file: file, opts: opts}
}

// Resolve binds every member of dst to a member of src. Problems are recorded in
// the returned pair's diagnostics; error diagnostics also fail the call.
func (r *Resolver) Resolve(src, dst reflect.Type) (*TypePair, error) {
	srcPlan, err := r.classifier.Resolve(src)
	if err != nil {
		return nil, err
	}

	dstPlan, err := r.classifier.Resolve(dst)
	if err != nil {
		return nil, err
	}

	for _, p := range []*typeplan.Plan{srcPlan, dstPlan} {
		if !p.Kind.HasMembers() {
			return nil, fmt.Errorf("%w: %s", ErrNotStruct, p)
		}
	}

	pair := &TypePair{Source: srcPlan.Type, Target: dstPlan.Type}
	tp := pair.String()

	tm, _ := r.file.Lookup(srcPlan.Type, dstPlan.Type)
	if tm == nil {
		tm = &mapping.TypeMapping{}
	}

	r.checkMappingMembers(pair, tm, dstPlan)

	sources := available(srcPlan)

	for _, target := range dstPlan.Members {
		b, ok := r.bind(pair, tm, srcPlan, sources, target)
		if !ok {
			continue
		}

		b.Associated = target.Associated || slices.Contains(tm.Associated, target.Name)
		b.Owned = target.Owned || slices.Contains(tm.Owned, target.Name)

		if b.Associated && b.Owned {
			pair.Diagnostics.AddError(diagnostic.CodeAssociationConflict,
				fmt.Sprintf("member %q is marked both associated and owned", target.Name), tp, target.Name)
		}

		pair.Bindings = append(pair.Bindings, b)
	}

	if dstPlan.IsEntity() {
		for _, k := range dstPlan.Keys {
			if slices.Contains(pair.Unmapped, k.Name) {
				pair.Diagnostics.AddWarning(diagnostic.CodeUnmappedKey,
					fmt.Sprintf("key member %q has no source, every instance is mapped as new", k.Name), tp, k.Name)
			}
		}
	}

	if err := pair.Diagnostics.Error(); err != nil {
		return pair, fmt.Errorf("%s: %w", tp, err)
	}

	return pair, nil
}

func (r *Resolver) bind(
	pair *TypePair,
	tm *mapping.TypeMapping,
	srcPlan *typeplan.Plan,
	sources []typeplan.Member,
	target typeplan.Member,
) (Binding, bool) {
	tp := pair.String()

	if path, from121, ok := tm.SourceFor(target.Name); ok {
		origin := MappingSourceYAMLFields
		if from121 {
			origin = MappingSourceYAML121
		}

		steps, typ, err := r.resolvePath(srcPlan, path)
		if err != nil {
			pair.Diagnostics.AddError(diagnostic.CodeUnknownMember, err.Error(), tp, target.Name)
			return Binding{}, false
		}

		return Binding{Target: target, Source: steps, SourceType: typ, Origin: origin, Score: 1}, true
	}

	if tm.IsIgnored(target.Name) || target.Ignored {
		pair.Ignored = append(pair.Ignored, target.Name)
		return Binding{}, false
	}

	if target.Pair != target.Name {
		if m, ok := findMember(sources, func(m typeplan.Member) bool { return m.Name == target.Pair }); ok {
			return direct(target, m, MappingSourceTag, 1), true
		}
	}

	if m, ok := findMember(sources, func(m typeplan.Member) bool { return m.Pair != m.Name && m.Pair == target.Name }); ok {
		return direct(target, m, MappingSourceTag, 1), true
	}

	if m, ok := findMember(sources, func(m typeplan.Member) bool { return m.Name == target.Name }); ok {
		return direct(target, m, MappingSourceName, 1), true
	}

	norm := match.Normalize(target.Name)
	if m, ok := findMember(sources, func(m typeplan.Member) bool { return match.Normalize(m.Name) == norm }); ok {
		return direct(target, m, MappingSourceName, 1), true
	}

	candidates := rank(target, sources, r.opts)

	if r.opts.AutoMatch {
		if best := candidates.Accept(r.opts.MinNameScore, match.DefaultMinGap); best != nil {
			m, _ := findMember(sources, func(m typeplan.Member) bool { return m.Name == best.Source.Name })
			pair.Diagnostics.AddInfo(diagnostic.CodeAutoMatched,
				fmt.Sprintf("%s <- %s (name score %.2f, %s)", target.Name, m.Name, best.NameScore, best.Compat),
				tp, target.Name)

			return direct(target, m, MappingSourceAutoMatched, best.NameScore), true
		}
	}

	pair.Unmapped = append(pair.Unmapped, target.Name)
	pair.Diagnostics.AddWarning(diagnostic.CodeUnmappedField,
		fmt.Sprintf("target member %q has no source member", target.Name), tp, target.Name,
		suggestions(candidates)...)

	return Binding{}, false
}

// resolvePath follows a dotted source path through struct members.
func (r *Resolver) resolvePath(srcPlan *typeplan.Plan, path string) ([]Step, reflect.Type, error) {
	parts, err := mapping.ParsePath(path)
	if err != nil {
		return nil, nil, err
	}

	var (
		steps []Step
		typ   reflect.Type
		cur   = srcPlan
	)

	for i, name := range parts {
		m, ok := cur.Member(name)
		if !ok {
			return nil, nil, fmt.Errorf("source %s has no member %q", cur, name)
		}

		steps = append(steps, Step{Name: m.Name, Index: m.Index})
		typ = m.Type

		if i == len(parts)-1 {
			break
		}

		next, err := r.classifier.Resolve(m.Type)
		if err != nil {
			return nil, nil, err
		}

		if !next.Kind.HasMembers() {
			return nil, nil, fmt.Errorf("member %q of path %q is not a struct", name, path)
		}

		cur = next
	}

	return steps, typ, nil
}

// checkMappingMembers reports mapping file entries naming members the target does not have.
func (r *Resolver) checkMappingMembers(pair *TypePair, tm *mapping.TypeMapping, dstPlan *typeplan.Plan) {
	names := make([]string, 0, len(tm.OneToOne)+len(tm.Fields)+len(tm.Ignore)+len(tm.Associated)+len(tm.Owned))
	for _, dst := range tm.OneToOne {
		names = append(names, dst)
	}

	for _, fm := range tm.Fields {
		names = append(names, fm.Target)
	}

	names = append(names, tm.Ignore...)
	names = append(names, tm.Associated...)
	names = append(names, tm.Owned...)

	slices.Sort(names)

	for _, name := range slices.Compact(names) {
		if _, ok := dstPlan.Member(name); !ok {
			pair.Diagnostics.AddError(diagnostic.CodeUnknownMember,
				fmt.Sprintf("target %s has no member %q", dstPlan, name), pair.String(), name)
		}
	}
}

func available(p *typeplan.Plan) []typeplan.Member {
	res := make([]typeplan.Member, 0, len(p.Members))
	for _, m := range p.Members {
		if !m.Ignored {
			res = append(res, m)
		}
	}

	return res
}

func findMember(ms []typeplan.Member, pred func(typeplan.Member) bool) (typeplan.Member, bool) {
	for _, m := range ms {
		if pred(m) {
			return m, true
		}
	}

	return typeplan.Member{}, false
}

func direct(target, source typeplan.Member, origin MappingSource, score float64) Binding {
	return Binding{
		Target:     target,
		Source:     []Step{{Name: source.Name, Index: source.Index}},
		SourceType: source.Type,
		Origin:     origin,
		Score:      score,
	}
}
