// Package target models which tool flows a group of sources applies to.
package target

import (
	"slices"
	"strings"
)

// Set is an ordered, deduplicated collection of active target names.
// Names are case-sensitive.
type Set struct {
	names []string
}

// NewSet builds a set from names, dropping duplicates and empty names.
// The first occurrence of a name decides its position.
func NewSet(names ...string) Set {
	var s Set
	s.Add(names...)
	return s
}

// Add appends names that are not yet part of the set.
func (s *Set) Add(names ...string) {
	for _, name := range names {
		if name == "" || s.Contains(name) {
			continue
		}
		s.names = append(s.names, name)
	}
}

func (s Set) Contains(name string) bool { return slices.Contains(s.names, name) }
func (s Set) Len() int                  { return len(s.names) }
func (s Set) Empty() bool               { return len(s.names) == 0 }

// Names returns a copy of the names in insertion order.
func (s Set) Names() []string { return slices.Clone(s.names) }

func (s Set) String() string { return strings.Join(s.names, ",") }

// Spec is the applicability rule of a source group. The zero value is the
// wildcard, which applies to every target.
type Spec struct {
	explicit bool
	names    []string
}

// Wildcard returns a spec that matches any target set, including an empty one.
func Wildcard() Spec { return Spec{} }

// Names returns a spec that applies only when one of names is active. An
// explicit spec without names never matches.
func Names(names ...string) Spec {
	return Spec{explicit: true, names: NewSet(names...).names}
}

func (s Spec) IsWildcard() bool { return !s.explicit }

// TargetNames returns the explicit names, or nil for the wildcard.
func (s Spec) TargetNames() []string { return slices.Clone(s.names) }

// Matches reports whether s applies under the active targets.
func (s Spec) Matches(active Set) bool {
	if !s.explicit {
		return true
	}
	for _, name := range s.names {
		if active.Contains(name) {
			return true
		}
	}
	return false
}

func (s Spec) String() string {
	if !s.explicit {
		return "*"
	}
	return "{" + strings.Join(s.names, ",") + "}"
}
