package dispatch

import (
	"sort"
	"unicode/utf8"
)

const (
	// suggestMaxInput caps the input length for suggestions; longer unknown
	// names are assumed typo-implausible and produce no candidates.
	suggestMaxInput = 10
	// suggestMaxDistance is the largest edit distance still offered.
	suggestMaxDistance = 2
	// suggestLimit caps the number of suggestions returned.
	suggestLimit = 3
)

// Resolve finds a command by primary name, falling back to a linear scan of
// alias lists. Interaction-only commands are never matched by alias; aliases
// exist for message mode.
func (r *Registry) Resolve(name string) (*Command, bool) {
	if c, ok := r.byName[name]; ok {
		return c, true
	}
	for _, c := range r.ordered {
		if c.InteractionOnly {
			continue
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, true
			}
		}
	}
	return nil, false
}

// Suggest returns up to three registered primary names within edit distance
// 2 of the given name, closest first. Names at equal distance sort
// alphabetically; the tie-break is deliberate so suggestion order never
// depends on map iteration.
func (r *Registry) Suggest(name string) []string {
	if utf8.RuneCountInString(name) > suggestMaxInput {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, c := range r.ordered {
		if d := Distance(name, c.Name); d <= suggestMaxDistance {
			cands = append(cands, candidate{name: c.Name, dist: d})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})

	if len(cands) > suggestLimit {
		cands = cands[:suggestLimit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}
