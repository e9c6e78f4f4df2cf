package exercise

import (
	"iter"
	"slices"
)

// Set is an ordered collection of definitions, unique under Compare.
type Set struct {
	defs []Definition
}

// NewSet sorts and deduplicates defs. When two definitions share the same
// numbers the first one wins.
func NewSet(defs ...Definition) Set {
	sorted := slices.Clone(defs)
	slices.SortStableFunc(sorted, Compare)
	sorted = slices.CompactFunc(sorted, func(a, b Definition) bool {
		return Compare(a, b) == 0
	})
	return Set{defs: sorted}
}

// Len returns the number of definitions in the set.
func (s Set) Len() int {
	return len(s.defs)
}

// Contains reports whether def is a member, comparing every field.
func (s Set) Contains(def Definition) bool {
	found, ok := s.lookup(def)
	return ok && found == def
}

// lookup finds the member that occupies def's position in the order.
func (s Set) lookup(def Definition) (Definition, bool) {
	i, ok := slices.BinarySearchFunc(s.defs, def, Compare)
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// Min returns the smallest definition in the set.
func (s Set) Min() (Definition, bool) {
	if len(s.defs) == 0 {
		return Definition{}, false
	}
	return s.defs[0], true
}

// Difference returns the members of s whose position in the order is not
// taken by any member of other.
func (s Set) Difference(other Set) Set {
	out := make([]Definition, 0, len(s.defs))
	for _, def := range s.defs {
		if _, ok := other.lookup(def); !ok {
			out = append(out, def)
		}
	}
	return Set{defs: out}
}

// All yields every definition in ascending order.
func (s Set) All() iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		for _, def := range s.defs {
			if !yield(def) {
				return
			}
		}
	}
}

// Find returns the first definition accepted by match.
func (s Set) Find(match func(Definition) bool) (Definition, bool) {
	for _, def := range s.defs {
		if match(def) {
			return def, true
		}
	}
	return Definition{}, false
}

// Slice returns a copy of the members in ascending order.
func (s Set) Slice() []Definition {
	return slices.Clone(s.defs)
}
