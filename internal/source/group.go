// Package source holds the tree of HDL source groups produced by the
// dependency resolver, and the transformations that prune and flatten it.
//
// Every transformation returns freshly allocated groups; the input tree is
// never modified.
package source

import (
	"slices"

	"github.com/hdlscript/hdlscript/internal/target"
)

// File is either a single source path or a nested group. Exactly one of
// Path and Group is set.
type File struct {
	Path  string
	Group *Group
}

// PathFile wraps a source path.
func PathFile(path string) File { return File{Path: path} }

// GroupFile wraps a nested group.
func GroupFile(g *Group) File { return File{Group: g} }

func (f File) IsGroup() bool { return f.Group != nil }

// Group is the contribution of one package or scope to the source tree.
type Group struct {
	// Package owning the group; empty for the anonymous top-level scope.
	Package     string
	Independent bool
	Target      target.Spec
	IncludeDirs []string
	// ExportIncdirs are re-exported to dependents.
	ExportIncdirs []string
	Defines       Defines
	// Files order is load-bearing: HDL tools compile in this order.
	Files        []File
	Dependencies []string
	Version      string
}

// EmptyGroup is the fallback used when a filter removes the whole tree.
func EmptyGroup() *Group {
	return &Group{Independent: true, Target: target.Wildcard()}
}

// IncDirs returns the include directories visible to the group: its own
// include dirs followed by its exported ones, without duplicates.
func (g *Group) IncDirs() []string {
	return appendUnique(slices.Clone(g.IncludeDirs), g.ExportIncdirs...)
}

// Paths returns the plain file paths directly inside the group.
func (g *Group) Paths() []string {
	var paths []string
	for _, f := range g.Files {
		if !f.IsGroup() {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// withFiles returns a copy of g's configuration holding files.
func (g *Group) withFiles(files []File) *Group {
	out := *g
	out.IncludeDirs = slices.Clone(g.IncludeDirs)
	out.ExportIncdirs = slices.Clone(g.ExportIncdirs)
	out.Dependencies = slices.Clone(g.Dependencies)
	out.Defines = NewDefines().Merge(g.Defines)
	out.Files = files
	return &out
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}
