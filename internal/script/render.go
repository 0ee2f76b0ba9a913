package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/hdlscript/hdlscript/internal/source"
)

// RootVar is the variable that scripts define to the package root.
const RootVar = "$ROOT"

// Render writes the script for format. For the template format, tmpl is the
// user template; it is ignored otherwise. Built-in and user templates see
// the context under its JSON keys, the same document template_json prints.
// Nothing is written if rendering fails.
func Render(w io.Writer, ctx *Context, format Format, tmpl string) error {
	if format == TemplateJSON {
		data, err := json.MarshalIndent(ctx, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}

	text := tmpl
	if format != Template {
		b, ok := backends[format]
		if !ok {
			panic("unreachable")
		}
		text = b.template
	}

	view, err := ctx.view()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	t, err := template.New(string(format)).
		Option("missingkey=error").
		Funcs(funcMap(ctx.Root)).
		Parse(text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func funcMap(root string) template.FuncMap {
	return template.FuncMap{
		"upper":  strings.ToUpper,
		"define": formatDefine,
		"root": func(path string) string {
			return rootPath(path, root)
		},
		"relative": func(path string) string {
			return relativePath(path, root)
		},
	}
}

// formatDefine renders NAME or NAME=VALUE with the name upper-cased. It
// takes a Define or its [name, value] form from the template view.
func formatDefine(d any) (string, error) {
	switch v := d.(type) {
	case source.Define:
		return defineString(v.Name, v.Value), nil
	case []any:
		if len(v) == 2 {
			name, ok := v[0].(string)
			if !ok {
				break
			}
			switch value := v[1].(type) {
			case nil:
				return defineString(name, nil), nil
			case string:
				return defineString(name, &value), nil
			}
		}
	}
	return "", fmt.Errorf("not a define: %v", d)
}

func defineString(name string, value *string) string {
	name = strings.ToUpper(name)
	if value != nil && *value != "" {
		return name + "=" + *value
	}
	return name
}

// underRoot returns path relative to root, if path lies below it.
func underRoot(path, root string) (string, bool) {
	if root == "" || !filepath.IsAbs(path) {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// rootPath rewrites a path below root to start with RootVar.
func rootPath(path, root string) string {
	rel, ok := underRoot(path, root)
	if !ok {
		return path
	}
	if rel == "." {
		return RootVar
	}
	return RootVar + "/" + rel
}

// relativePath strips root from a path below it.
func relativePath(path, root string) string {
	if rel, ok := underRoot(path, root); ok {
		return rel
	}
	return path
}
