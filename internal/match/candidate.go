package match

import (
	"reflect"
	"sort"

	"entity-mapper/primitive"
)

// Field is a named member offered for pairing.
type Field struct {
	Name string
	Type reflect.Type
}

// Candidate is a possible source member for one target member.
type Candidate struct {
	Source Field

	NameScore float64    // normalized name similarity in [0, 1]
	Compat    CompatEnum // type fit
	Score     float64    // weighted ranking score
}

// Candidates are sorted best first.
type Candidates []Candidate

const (
	nameWeight = 0.6
	typeWeight = 0.4

	// DefaultMinGap is the ranking score distance required between the two best candidates.
	DefaultMinGap = 0.1
)

// Rank scores every source field against target, best first.
// Ties are broken by source name so the order is deterministic.
func Rank(target Field, sources []Field, allowed primitive.CategoryEnum) Candidates {
	res := make(Candidates, 0, len(sources))

	for _, src := range sources {
		name := NameScore(src.Name, target.Name)
		compat := Compat(src.Type, target.Type, allowed)

		res = append(res, Candidate{
			Source:    src,
			NameScore: name,
			Compat:    compat,
			Score:     name*nameWeight + compat.weight()*typeWeight,
		})
	}

	sort.Sort(res)

	return res
}

// Len implements sort.Interface.
func (c Candidates) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c Candidates) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c Candidates) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Source.Name < c[j].Source.Name
}

// Best returns the first candidate, or nil for an empty list.
func (c Candidates) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// Accept returns the best candidate when it is a clear winner: its name score
// reaches minName, its type fits, and it leads the runner-up by at least minGap.
func (c Candidates) Accept(minName, minGap float64) *Candidate {
	best := c.Best()
	if best == nil || best.NameScore < minName || best.Compat == CompatNone {
		return nil
	}

	if len(c) > 1 && best.Score-c[1].Score < minGap {
		return nil
	}

	return best
}

// IsAmbiguous reports whether the two best candidates are closer than gap.
func (c Candidates) IsAmbiguous(gap float64) bool {
	return len(c) > 1 && c[0].Score-c[1].Score < gap
}
