package plan

import (
	"fmt"

	"entity-mapper/internal/match"
	"entity-mapper/options"
	"entity-mapper/typeplan"
)

func rank(target typeplan.Member, sources []typeplan.Member, opts options.Options) match.Candidates {
	fields := make([]match.Field, len(sources))
	for i, m := range sources {
		fields[i] = match.Field{Name: m.Name, Type: m.Type}
	}

	return match.Rank(match.Field{Name: target.Name, Type: target.Type}, fields, opts.Conversions)
}

func suggestions(candidates match.Candidates) []string {
	var res []string

	for _, c := range candidates {
		if len(res) == maxSuggestions {
			break
		}

		if c.Compat == match.CompatNone {
			continue
		}

		res = append(res, fmt.Sprintf("%s (score %.2f, %s)", c.Source.Name, c.Score, c.Compat))
	}

	return res
}
