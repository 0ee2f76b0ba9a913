package source

import "slices"

// Flatten expands the tree into an ordered list of groups that contain only
// plain files. Each contiguous run of files in a group becomes one flat
// group; a nested group is expanded in place with its parent's
// configuration merged into its own. The tree must be acyclic.
func Flatten(g *Group) []*Group {
	if g == nil {
		return nil
	}
	return flattenInto(nil, g)
}

func flattenInto(into []*Group, g *Group) []*Group {
	var run []File
	flush := func() {
		if len(run) > 0 {
			into = append(into, g.withFiles(run))
			run = nil
		}
	}
	for _, f := range g.Files {
		if !f.IsGroup() {
			run = append(run, f)
			continue
		}
		flush()
		into = flattenInto(into, inherit(g, f.Group))
	}
	flush()
	return into
}

// inherit returns child with the configuration of parent merged in. The
// child's own values win where both define the same key.
func inherit(parent, child *Group) *Group {
	out := *child
	if out.Package == "" {
		out.Package = parent.Package
	}
	out.Independent = parent.Independent && child.Independent
	if child.Target.IsWildcard() {
		out.Target = parent.Target
	}
	if out.Version == "" && out.Package == parent.Package {
		out.Version = parent.Version
	}
	out.IncludeDirs = appendUnique(slices.Clone(parent.IncludeDirs), child.IncludeDirs...)
	out.ExportIncdirs = appendUnique(slices.Clone(parent.ExportIncdirs), child.ExportIncdirs...)
	out.Defines = parent.Defines.Merge(child.Defines)
	out.Dependencies = slices.Clone(child.Dependencies)
	return &out
}
