package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdlscript/hdlscript/internal/manifest"
	"github.com/hdlscript/hdlscript/internal/msg"
	"github.com/hdlscript/hdlscript/internal/script"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	msg.SetOutput(new(bytes.Buffer))
	t.Cleanup(func() {
		msg.SetOutput(os.Stderr)
		msg.SetVerbose(false)
	})

	rootCmd := newRootCmd()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// project creates a package "top" depending on "lib" and returns top's dir.
func project(t *testing.T) string {
	t.Helper()
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "lib", "Hdl.toml"), `
export_include_dirs = ["include"]
sources = ["src/lib.sv"]

[package]
name = "lib"
version = "2.0.0"
`)
	writeFile(t, filepath.Join(ws, "lib", "src", "lib.sv"), "")

	writeFile(t, filepath.Join(ws, "top", "Hdl.toml"), `
sources = [
  "src/a.sv",
  "src/b.vhd",
  { target = "asic", files = ["src/pads.sv"] },
]

[package]
name = "top"

[dependencies]
lib = "../lib"
`)
	for _, f := range []string{"a.sv", "b.vhd", "pads.sv"} {
		writeFile(t, filepath.Join(ws, "top", "src", f), "")
	}
	return filepath.Join(ws, "top")
}

func TestScript_Flist(t *testing.T) {
	dir := project(t)
	ws := filepath.Dir(dir)

	out, err := run(t, "-d", dir, "script", "flist", "-D", "SIM=1")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"+incdir+" + filepath.Join(ws, "lib", "include"),
		"+define+SIM=1",
		"+define+TARGET_FLIST",
		filepath.Join(ws, "lib", "src", "lib.sv"),
		filepath.Join(dir, "src", "a.sv"),
		filepath.Join(dir, "src", "b.vhd"),
	}, "\n")+"\n", out)
}

func TestScript_TargetsAndPackages(t *testing.T) {
	dir := project(t)

	libInclude := "+incdir+" + filepath.Join(filepath.Dir(dir), "lib", "include") + "\n"

	// the dependency's exported include dir stays visible to top
	out, err := run(t, "-d", dir, "script", "flist", "-t", "asic", "-n", "--no-default-target", "--relative-path")
	require.NoError(t, err)
	assert.Equal(t, libInclude+"+define+TARGET_ASIC\nsrc/a.sv\nsrc/b.vhd\nsrc/pads.sv\n", out)

	out, err = run(t, "-d", dir, "script", "flist", "-e", "top", "--no-default-target")
	require.NoError(t, err)
	assert.Equal(t, libInclude+filepath.Join(filepath.Dir(dir), "lib", "src", "lib.sv")+"\n", out)
}

func TestScript_Vsim(t *testing.T) {
	dir := project(t)

	out, err := run(t, "-d", dir, "script", "vsim", "--vlog-arg=-suppress 2583", "--compilation-mode", "common")
	require.NoError(t, err)

	assert.Contains(t, out, `set ROOT "`+dir+`"`)
	assert.Contains(t, out, "    -suppress 2583 \\\n")
	assert.Contains(t, out, "    \"$ROOT/src/a.sv\"")
	assert.Contains(t, out, "+define+TARGET_VSIM")
}

func TestScript_OptionConflictBeforeResolve(t *testing.T) {
	empty := t.TempDir()

	_, err := run(t, "-d", empty, "script", "flist", "--vlog-arg", "x")
	assert.ErrorIs(t, err, script.ErrOptionConflict)

	_, err = run(t, "-d", empty, "script", "vsim", "--only-defines")
	assert.ErrorIs(t, err, script.ErrOptionConflict)

	_, err = run(t, "-d", empty, "script", "vivado", "--only-defines")
	assert.ErrorIs(t, err, manifest.ErrNoManifest)
}

func TestScript_Template(t *testing.T) {
	dir := project(t)
	tmpl := filepath.Join(t.TempDir(), "files.tpl")
	writeFile(t, tmpl, `{{ range .all_files }}{{ relative . }}{{ "\n" }}{{ end }}`)

	out, err := run(t, "-d", dir, "script", "template", "--template", tmpl, "-p", "top", "-n")
	require.NoError(t, err)
	assert.Equal(t, "src/a.sv\nsrc/b.vhd\n", out)

	_, err = run(t, "-d", dir, "script", "template")
	assert.ErrorIs(t, err, script.ErrOptionConflict)

	_, err = run(t, "-d", dir, "script", "template", "--template", filepath.Join(t.TempDir(), "missing.tpl"))
	assert.ErrorContains(t, err, "reading template")
}

func TestScript_TemplateJSON(t *testing.T) {
	dir := project(t)

	out, err := run(t, "-d", dir, "script", "template_json", "--no-simset")
	require.NoError(t, err)
	assert.Contains(t, out, `"vivado_filesets": [`)
	assert.Contains(t, out, `"HEADER_AUTOGEN"`)
}

func TestScript_BadArgs(t *testing.T) {
	_, err := run(t, "script", "quartus")
	assert.Error(t, err)

	_, err = run(t, "script")
	assert.Error(t, err)

	_, err = run(t, "script", "vsim", "--compilation-mode", "parallel")
	assert.ErrorContains(t, err, "must be one of: separate, common")
}

func TestPackages(t *testing.T) {
	dir := project(t)

	out, err := run(t, "-d", dir, "packages")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "lib "))
	assert.Contains(t, lines[0], "2.0.0")
	assert.True(t, strings.HasPrefix(lines[1], "top "))
	assert.Contains(t, lines[1], " - ")

	out, err = run(t, "-d", dir, "packages", "--graph")
	require.NoError(t, err)
	assert.Equal(t, "lib\ntop  lib\n", out)
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-ip")

	out, err := run(t, "new", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created file")

	assert.FileExists(t, filepath.Join(dir, "Hdl.toml"))
	assert.FileExists(t, filepath.Join(dir, "src", "my_ip.sv"))
	assert.FileExists(t, filepath.Join(dir, "test", "tb_my_ip.sv"))

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-ip", m.Package.Name)

	out, err = run(t, "-d", dir, "script", "flist", "--relative-path")
	require.NoError(t, err)
	assert.Equal(t, "+incdir+include\n+define+TARGET_FLIST\nsrc/my_ip.sv\n", out)

	out, err = run(t, "-d", dir, "script", "flist", "--relative-path", "-t", "simulation", "--no-default-target")
	require.NoError(t, err)
	assert.Contains(t, out, "test/tb_my_ip.sv\n")
}

func TestNew_YAML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ip")

	_, err := run(t, "new", "--yaml", dir)
	require.NoError(t, err)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "ip", m.Package.Name)
	assert.Len(t, m.Sources, 2)
}

func TestEnumValue(t *testing.T) {
	e := NewEnumValue("b", EnumOption{Name: "b", Help: "bee"}, EnumOption{Name: "a"})

	assert.Equal(t, "b", e.Value())
	assert.Equal(t, "[b, a]", e.HelpString())
	assert.EqualError(t, e.Set("c"), "must be one of: b, a")
	assert.NoError(t, e.Set("a"))
	assert.Equal(t, "a", e.String())

	items, directive := e.CompletionFunc()(nil, nil, "")
	assert.Equal(t, []string{"b\tbee", "a"}, items)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	items, _ = e.CompletionFunc()(nil, nil, "a")
	assert.Equal(t, []string{"a"}, items)

	assert.Panics(t, func() { NewEnumValue("z", EnumOption{Name: "a"}) })
}
