// Package script turns a source tree into a compile script for an EDA tool.
//
// The pipeline filters the tree by target and package, flattens it,
// classifies the files into per-language batches, aggregates tree-wide
// collections and finally renders a format template over the result.
package script

import (
	"io"

	"github.com/hdlscript/hdlscript/internal/msg"
	"github.com/hdlscript/hdlscript/internal/source"
)

// Generate renders the script for tree. root is the root package directory
// used to shorten paths, rootPackage its name.
func Generate(w io.Writer, tree *source.Group, root, rootPackage string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	ctx := Build(tree, root, rootPackage, opts)
	return Render(w, ctx, opts.Format, opts.Template)
}

// Build runs every stage up to rendering.
func Build(tree *source.Group, root, rootPackage string, opts Options) *Context {
	targets := opts.ActiveTargets()
	msg.Debug("active targets: %s", targets)

	filtered := source.FilterTargets(tree, targets)
	if filtered == nil {
		msg.Warn("no sources apply to targets %s", targets)
		filtered = source.EmptyGroup()
	}

	if len(opts.Packages) > 0 || len(opts.Exclude) > 0 || opts.NoDeps {
		keep := source.PackageList(filtered, rootPackage, opts.Packages, opts.Exclude, opts.NoDeps)
		msg.Debug("packages: %v", keep)
		filtered = source.FilterPackages(filtered, keep)
		if filtered == nil {
			filtered = source.EmptyGroup()
		}
	}

	groups := source.Flatten(filtered)
	msg.Debug("%d flat groups", len(groups))
	return NewContext(root, targets, groups, opts)
}
