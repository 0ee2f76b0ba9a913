package manifest

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hdlscript/hdlscript/internal/msg"
	"github.com/hdlscript/hdlscript/internal/source"
	"github.com/hdlscript/hdlscript/internal/target"
)

// DepsDir is where git dependencies are checked out, relative to the root
// package.
var DepsDir = filepath.Join(".hdlscript", "deps")

// Package represents a single package (root or dependency) in the graph
type Package struct {
	Name     string
	Dir      string
	Manifest *Manifest
	// Deps are the direct dependencies, sorted.
	Deps   []string
	IsRoot bool
}

func (p *Package) Version() string { return p.Manifest.Package.Version }

type Resolver struct {
	root    *Package
	depsDir string
}

// NewResolver loads the root package in dir.
func NewResolver(dir string) (*Resolver, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}
	root := &Package{
		Name:     m.Package.Name,
		Dir:      dir,
		Manifest: m,
		Deps:     slices.Sorted(maps.Keys(m.Dependencies)),
		IsRoot:   true,
	}
	return &Resolver{root: root, depsDir: filepath.Join(dir, DepsDir)}, nil
}

func (r *Resolver) Root() *Package { return r.root }

// Packages resolves the dependency graph and returns every package after
// its dependencies. The graph is walked one level at a time; the packages
// of a level are loaded concurrently. The first declaration of a dependency
// in walk order decides where it comes from.
func (r *Resolver) Packages(ctx context.Context) ([]*Package, error) {
	packages := map[string]*Package{r.root.Name: r.root}

	type pending struct {
		name string
		dep  Dependency
		from string
	}

	level := []*Package{r.root}
	for len(level) > 0 {
		var next []pending
		queued := make(map[string]bool)
		for _, pkg := range level {
			for _, name := range pkg.Deps {
				if _, ok := packages[name]; ok || queued[name] {
					continue
				}
				queued[name] = true
				next = append(next, pending{name: name, dep: pkg.Manifest.Dependencies[name], from: pkg.Dir})
			}
		}

		loaded := make([]*Package, len(next))
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range next {
			g.Go(func() error {
				pkg, err := r.load(gctx, p.name, p.dep, p.from)
				if err != nil {
					return fmt.Errorf("failed to load dependency %q: %w", p.name, err)
				}
				loaded[i] = pkg
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, pkg := range loaded {
			packages[pkg.Name] = pkg
		}
		level = loaded
	}

	deps := make(map[string][]string, len(packages))
	for name, pkg := range packages {
		deps[name] = pkg.Deps
	}
	order, err := sortPackages(deps)
	if err != nil {
		return nil, err
	}

	out := make([]*Package, 0, len(order))
	for _, name := range order {
		out = append(out, packages[name])
	}
	return out, nil
}

func (r *Resolver) load(ctx context.Context, name string, dep Dependency, from string) (*Package, error) {
	var dir string
	if dep.Path != "" {
		dir = dep.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(from, dir)
		}
	} else {
		dir = filepath.Join(r.depsDir, name)

		// fetch dependency if it doesn't exist
		if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
			if err := os.MkdirAll(r.depsDir, 0o755); err != nil {
				return nil, err
			}
			if err := fetchGit(ctx, dep.Git, dir); err != nil {
				return nil, err
			}
		}
	}

	msg.Debug("loading %s from %s", name, dir)
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if m.Package.Name != name {
		msg.Warn("dependency %q has a mismatched package name: %q", name, m.Package.Name)
	}
	return &Package{
		Name:     name,
		Dir:      dir,
		Manifest: m,
		Deps:     slices.Sorted(maps.Keys(m.Dependencies)),
	}, nil
}

// Sources resolves the graph and builds the source tree.
func (r *Resolver) Sources(ctx context.Context) (*source.Group, error) {
	pkgs, err := r.Packages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependency graph: %w", err)
	}
	return BuildTree(pkgs)
}

// BuildTree returns an anonymous group holding one group per package, in
// the given order. A package sees its own exported include dirs and those of
// its direct dependencies.
func BuildTree(pkgs []*Package) (*source.Group, error) {
	byName := make(map[string]*Package, len(pkgs))
	for _, pkg := range pkgs {
		byName[pkg.Name] = pkg
	}

	top := &source.Group{Independent: true, Target: target.Wildcard()}
	for _, pkg := range pkgs {
		exports := absPaths(pkg.Dir, pkg.Manifest.ExportIncludeDirs)
		incdirs := slices.Clone(exports)
		for _, name := range pkg.Deps {
			dep, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("internal error: resolved dependency %q not found in package map", name)
			}
			for _, dir := range absPaths(dep.Dir, dep.Manifest.ExportIncludeDirs) {
				if !slices.Contains(incdirs, dir) {
					incdirs = append(incdirs, dir)
				}
			}
		}

		files, err := collectSources(pkg.Dir, pkg.Manifest.Sources)
		if err != nil {
			return nil, fmt.Errorf("failed to collect sources for %s: %w", pkg.Name, err)
		}

		top.Files = append(top.Files, source.GroupFile(&source.Group{
			Package:       pkg.Name,
			Independent:   true,
			Target:        target.Wildcard(),
			IncludeDirs:   incdirs,
			ExportIncdirs: exports,
			Files:         files,
			Dependencies:  slices.Clone(pkg.Deps),
			Version:       pkg.Version(),
		}))
	}
	return top, nil
}

func collectSources(dir string, sources []Source) ([]source.File, error) {
	var files []source.File
	for _, src := range sources {
		if !src.IsGroup() {
			paths, err := collectFiles(dir, src.Pattern)
			if err != nil {
				return nil, err
			}
			for _, p := range paths {
				files = append(files, source.PathFile(p))
			}
			continue
		}

		nested, err := collectSources(dir, src.Files)
		if err != nil {
			return nil, err
		}
		files = append(files, source.GroupFile(&source.Group{
			Target:      src.Target,
			IncludeDirs: absPaths(dir, src.IncludeDirs),
			Defines:     source.NewDefines(src.Defines...),
			Files:       nested,
		}))
	}
	return files, nil
}

// collectFiles expands a source pattern relative to dir. A pattern without
// glob syntax names a single file and is kept even if it does not exist.
func collectFiles(dir, pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		path := absPath(dir, pattern)
		if _, err := os.Stat(path); err != nil {
			msg.Warn("source file %s does not exist", path)
		}
		return []string{path}, nil
	}

	base, pat := dir, filepath.ToSlash(pattern)
	if filepath.IsAbs(pattern) {
		var rel string
		rel, pat = doublestar.SplitPattern(pat)
		base = filepath.FromSlash(rel)
	}

	matches, err := doublestar.Glob(os.DirFS(base), pat, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("while globbing %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		msg.Warn("pattern %s matches no files in %s", pattern, base)
	}
	slices.Sort(matches)

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Join(base, filepath.FromSlash(match)))
	}
	return files, nil
}

func absPath(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

func absPaths(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, absPath(dir, p))
	}
	return out
}
