// Package manifest reads package manifests and resolves a package with its
// dependencies into a source tree.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hdlscript/hdlscript/internal/source"
	"github.com/hdlscript/hdlscript/internal/target"
)

// Manifest file names, in lookup order.
var FileNames = []string{"Hdl.toml", "Hdl.yml", "Hdl.yaml"}

var (
	ErrNoManifest = errors.New("no manifest found")

	validate = validator.New()
)

type Manifest struct {
	Package           PackageSection        `toml:"package"`
	Dependencies      map[string]Dependency `toml:"dependencies" validate:"dive"`
	ExportIncludeDirs []string              `toml:"export_include_dirs"`
	Sources           []Source              `toml:"-" validate:"dive"`
}

// PackageSection defines the [package] section
type PackageSection struct {
	Name        string   `toml:"name" validate:"required"`
	Version     string   `toml:"version" validate:"omitempty,semver"`
	Description string   `toml:"description"`
	Authors     []string `toml:"authors"`
}

// Dependency is either a local path or a git remote.
type Dependency struct {
	Path string `toml:"path" validate:"required_without=Git,excluded_with=Git"`
	Git  string `toml:"git" validate:"required_without=Path,excluded_with=Path"`
}

// Source is a manifest source entry: a path pattern, or a group of entries
// sharing a target, include dirs and defines.
type Source struct {
	Pattern     string
	Target      target.Spec
	IncludeDirs []string
	Defines     []source.Define
	Files       []Source `validate:"dive"`
}

func (s Source) IsGroup() bool { return s.Pattern == "" }

// Parse decodes a manifest. yamlSyntax selects YAML over TOML.
func Parse(rdr io.Reader, yamlSyntax bool, env Env) (*Manifest, error) {
	var raw map[string]any
	if yamlSyntax {
		if err := yaml.NewDecoder(rdr).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	} else {
		if err := toml.NewDecoder(rdr).Decode(&raw); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				return nil, errors.New(derr.String())
			}
			return nil, err
		}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	processed, err := processExpressions(raw, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in manifest: %w", err)
	}
	raw = processed.(map[string]any)

	m, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return m, nil
}

// ParseFile parses the manifest at path; the syntax follows the extension.
func ParseFile(path string, env Env) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	m, err := Parse(bufio.NewReader(f), ext == ".yml" || ext == ".yaml", env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Find returns the manifest path inside dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoManifest, dir, strings.Join(FileNames, ", "))
}

// Load finds and parses the manifest of the package in dir.
func Load(dir string) (*Manifest, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return ParseFile(path, NewEnv(dir))
}

func fromRaw(raw map[string]any) (*Manifest, error) {
	m := new(Manifest)
	if err := unmarshalSection(raw, "package", &m.Package); err != nil {
		return nil, err
	}

	if data, ok := raw["dependencies"]; ok {
		deps, ok := data.(map[string]any)
		if !ok {
			return nil, errors.New("invalid [dependencies] section format: expected a table")
		}
		m.Dependencies = make(map[string]Dependency, len(deps))
		for name, spec := range deps {
			dep, err := parseDependency(spec)
			if err != nil {
				return nil, fmt.Errorf("dependency %q: %w", name, err)
			}
			m.Dependencies[name] = dep
		}
	}

	var err error
	if m.ExportIncludeDirs, err = stringList(raw["export_include_dirs"], "export_include_dirs"); err != nil {
		return nil, err
	}
	if m.Sources, err = parseSources(raw["sources"], "sources"); err != nil {
		return nil, err
	}
	return m, nil
}

// parseDependency accepts a table with path or git, or a string that is a
// git remote when it carries a git: or host shortcut prefix and a path
// otherwise.
func parseDependency(spec any) (Dependency, error) {
	switch v := spec.(type) {
	case string:
		if isGitSpec(v) {
			return Dependency{Git: v}, nil
		}
		return Dependency{Path: v}, nil
	case map[string]any:
		var dep Dependency
		if err := toml.Unmarshal([]byte(mustMarshal(v)), &dep); err != nil {
			return dep, err
		}
		return dep, nil
	}
	return Dependency{}, fmt.Errorf("unexpected type: %T", spec)
}

func parseSources(data any, where string) ([]Source, error) {
	if data == nil {
		return nil, nil
	}
	list, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", where, data)
	}
	sources := make([]Source, 0, len(list))
	for i, item := range list {
		at := fmt.Sprintf("%s[%d]", where, i)
		switch v := item.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("%s: empty path", at)
			}
			sources = append(sources, Source{Pattern: v})
		case map[string]any:
			src, err := parseGroup(v, at)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		default:
			return nil, fmt.Errorf("%s: unexpected type %T", at, item)
		}
	}
	return sources, nil
}

func parseGroup(table map[string]any, where string) (Source, error) {
	var src Source
	for key := range table {
		switch key {
		case "target", "include_dirs", "defines", "files":
		default:
			return src, fmt.Errorf("%s: unknown key %q", where, key)
		}
	}

	var err error
	if src.Target, err = parseTarget(table["target"], where+".target"); err != nil {
		return src, err
	}
	if src.IncludeDirs, err = stringList(table["include_dirs"], where+".include_dirs"); err != nil {
		return src, err
	}
	if src.Defines, err = parseDefines(table["defines"], where+".defines"); err != nil {
		return src, err
	}
	if src.Files, err = parseSources(table["files"], where+".files"); err != nil {
		return src, err
	}
	return src, nil
}

// parseTarget reads a target name, a list of names, or "*".
func parseTarget(data any, where string) (target.Spec, error) {
	switch v := data.(type) {
	case nil:
		return target.Wildcard(), nil
	case string:
		if v == "*" {
			return target.Wildcard(), nil
		}
		return target.Names(v), nil
	case []any:
		names, err := stringList(v, where)
		if err != nil {
			return target.Spec{}, err
		}
		return target.Names(names...), nil
	}
	return target.Spec{}, fmt.Errorf("%s: expected a string or a list, got %T", where, data)
}

// parseDefines reads a table of defines. A null or empty value defines the
// name alone. Entries are sorted by name since tables carry no order.
func parseDefines(data any, where string) ([]source.Define, error) {
	if data == nil {
		return nil, nil
	}
	table, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a table, got %T", where, data)
	}
	defines := make([]source.Define, 0, len(table))
	for name, value := range table {
		d := source.Define{Name: name}
		switch v := value.(type) {
		case nil:
		case string:
			d.Value = source.Value(v)
		case bool:
			if !v {
				continue
			}
		default:
			d.Value = source.Value(fmt.Sprint(v))
		}
		defines = append(defines, d)
	}
	slices.SortFunc(defines, source.Define.Compare)
	return defines, nil
}

func stringList(data any, where string) ([]string, error) {
	if data == nil {
		return nil, nil
	}
	list, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of strings, got %T", where, data)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected a string, got %T", where, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalSection is a helper to parse a table section into dst
func unmarshalSection(raw map[string]any, name string, dst any) error {
	data, ok := raw[name]
	if !ok {
		return nil
	}
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}
	if err := toml.Unmarshal([]byte(mustMarshal(table)), dst); err != nil {
		return fmt.Errorf("failed to parse [%s] section: %w", name, err)
	}
	return nil
}
