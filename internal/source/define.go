package source

import (
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Define is a preprocessor macro with an optional value.
type Define struct {
	Name  string
	Value *string
}

// Value returns a pointer to v for use as a define value.
func Value(v string) *string { return &v }

// ParseDefine parses the NAME[=VALUE] form accepted on the command line.
func ParseDefine(s string) Define {
	name, value, ok := strings.Cut(s, "=")
	d := Define{Name: strings.TrimSpace(name)}
	if ok {
		d.Value = Value(strings.TrimSpace(value))
	}
	return d
}

// HasValue reports whether the define carries a non-empty value.
func (d Define) HasValue() bool { return d.Value != nil && *d.Value != "" }

func (d Define) String() string {
	if d.HasValue() {
		return d.Name + "=" + *d.Value
	}
	return d.Name
}

// MarshalJSON encodes the define as a [name, value] pair, value being null
// when absent.
func (d Define) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Name, d.Value})
}

// Compare orders defines by name, then by value with absent values first.
func (d Define) Compare(o Define) int {
	if c := strings.Compare(d.Name, o.Name); c != 0 {
		return c
	}
	switch {
	case d.Value == nil && o.Value == nil:
		return 0
	case d.Value == nil:
		return -1
	case o.Value == nil:
		return 1
	}
	return strings.Compare(*d.Value, *o.Value)
}

// foldName is the matching key of a define name.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Defines is an insertion-ordered define map. Names match case-insensitively
// while the spelling of the last assignment is kept for display.
type Defines struct {
	keys    []string
	entries map[string]Define
}

// NewDefines builds a map from defs; later entries replace earlier ones
// with the same name.
func NewDefines(defs ...Define) Defines {
	var d Defines
	for _, def := range defs {
		d.Set(def.Name, def.Value)
	}
	return d
}

// Set assigns value to name. A name that is already present keeps its
// position.
func (d *Defines) Set(name string, value *string) {
	key := foldName(name)
	if d.entries == nil {
		d.entries = make(map[string]Define)
	}
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = Define{Name: name, Value: value}
}

func (d Defines) Get(name string) (Define, bool) {
	def, ok := d.entries[foldName(name)]
	return def, ok
}

func (d Defines) Len() int { return len(d.keys) }

// List returns the defines in insertion order.
func (d Defines) List() []Define {
	out := make([]Define, 0, len(d.keys))
	for _, key := range d.keys {
		out = append(out, d.entries[key])
	}
	return out
}

// Merge returns a new map holding d overlaid with child. Neither input is
// modified.
func (d Defines) Merge(child Defines) Defines {
	out := Defines{
		keys:    slices.Clone(d.keys),
		entries: make(map[string]Define, len(d.keys)+len(child.keys)),
	}
	for key, def := range d.entries {
		out.entries[key] = def
	}
	for _, def := range child.List() {
		out.Set(def.Name, def.Value)
	}
	return out
}
