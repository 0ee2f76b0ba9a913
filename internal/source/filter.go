package source

import (
	"slices"
	"strings"

	"github.com/hdlscript/hdlscript/internal/target"
)

// FilterTargets returns the part of the tree that applies under the active
// targets, or nil if g itself does not apply. A group whose target does not
// match is dropped together with everything nested in it.
func FilterTargets(g *Group, active target.Set) *Group {
	if g == nil || !g.Target.Matches(active) {
		return nil
	}
	files := make([]File, 0, len(g.Files))
	for _, f := range g.Files {
		if !f.IsGroup() {
			files = append(files, f)
			continue
		}
		if sub := FilterTargets(f.Group, active); sub != nil {
			files = append(files, GroupFile(sub))
		}
	}
	return g.withFiles(files)
}

// FilterPackages returns the part of the tree owned by the packages in
// keep, or nil if g itself is dropped. Package names are compared in lower
// case. Groups without a package are always kept.
func FilterPackages(g *Group, keep []string) *Group {
	allowed := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		allowed[strings.ToLower(name)] = struct{}{}
	}
	return filterPackages(g, allowed)
}

func filterPackages(g *Group, allowed map[string]struct{}) *Group {
	if g == nil {
		return nil
	}
	if g.Package != "" {
		if _, ok := allowed[strings.ToLower(g.Package)]; !ok {
			return nil
		}
	}
	files := make([]File, 0, len(g.Files))
	for _, f := range g.Files {
		if !f.IsGroup() {
			files = append(files, f)
			continue
		}
		if sub := filterPackages(f.Group, allowed); sub != nil {
			files = append(files, GroupFile(sub))
		}
	}
	return g.withFiles(files)
}

// PackageList resolves the lower-case package names to keep.
//
// Without an allow list the root package is the seed; if root is empty too,
// every package in the tree is. Unless noDeps is set the transitive
// dependencies of the seeds are added, read from the Dependencies of the
// tree's groups. Denied packages are removed last.
func PackageList(tree *Group, root string, allow, deny []string, noDeps bool) []string {
	graph := dependencyGraph(tree)

	var seeds []string
	switch {
	case len(allow) > 0:
		seeds = lowerAll(allow)
	case root != "":
		seeds = []string{strings.ToLower(root)}
	default:
		seeds = graph.order
	}

	keep := appendUnique(nil, seeds...)
	if !noDeps {
		for i := 0; i < len(keep); i++ {
			keep = appendUnique(keep, graph.deps[keep[i]]...)
		}
	}

	denied := lowerAll(deny)
	return slices.DeleteFunc(keep, func(name string) bool {
		return slices.Contains(denied, name)
	})
}

type packageGraph struct {
	order []string
	deps  map[string][]string
}

func dependencyGraph(tree *Group) packageGraph {
	graph := packageGraph{deps: make(map[string][]string)}
	var walk func(*Group)
	walk = func(g *Group) {
		if g == nil {
			return
		}
		if g.Package != "" {
			name := strings.ToLower(g.Package)
			if _, ok := graph.deps[name]; !ok {
				graph.order = append(graph.order, name)
			}
			graph.deps[name] = appendUnique(graph.deps[name], lowerAll(g.Dependencies)...)
		}
		for _, f := range g.Files {
			if f.IsGroup() {
				walk(f.Group)
			}
		}
	}
	walk(tree)
	return graph
}

func lowerAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = appendUnique(out, strings.ToLower(name))
	}
	return out
}
