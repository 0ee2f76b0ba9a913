// hdlscript script <format>
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hdlscript/hdlscript/internal/manifest"
	"github.com/hdlscript/hdlscript/internal/msg"
	"github.com/hdlscript/hdlscript/internal/script"
	"github.com/hdlscript/hdlscript/internal/source"
)

type scriptFlags struct {
	targets         []string
	noDefaultTarget bool
	relativePath    bool
	defines         []string
	vcomArgs        []string
	vlogArgs        []string
	onlyDefines     bool
	onlyIncludes    bool
	onlySources     bool
	noSimset        bool
	vloganBin       string
	vhdlanBin       string
	noAbortOnError  bool
	compilationMode EnumValue
	packages        []string
	noDeps          bool
	exclude         []string
	template        string
}

func formatNames() []string {
	var names []string
	for _, f := range script.Formats() {
		names = append(names, string(f))
	}
	return names
}

func newScriptCmd(global *globalFlags) *cobra.Command {
	flags := scriptFlags{
		compilationMode: NewEnumValue(string(script.Separate),
			EnumOption{Name: string(script.Separate), Help: "One command per group of same-language files"},
			EnumOption{Name: string(script.Common), Help: "One command per language for the whole tree"},
		),
	}

	cmd := &cobra.Command{
		Use:       "script <format>",
		Short:     "Emit a tool script for the package",
		Long:      `Emit a compile script for the given format on standard output.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: formatNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := script.ParseFormat(args[0])
			if err != nil {
				return err
			}
			return runScript(cmd, global, &flags, format)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&flags.targets, "target", "t", nil, "Only include sources that match the given target")
	f.BoolVar(&flags.noDefaultTarget, "no-default-target", false, "Remove any default targets that may be added to the generated script")
	f.BoolVar(&flags.relativePath, "relative-path", false, "Use relative paths (flist generation only)")
	f.StringArrayVarP(&flags.defines, "define", "D", nil, "Pass an additional define to all source files")
	f.StringArrayVar(&flags.vcomArgs, "vcom-arg", nil, "Pass an argument to vcom calls (vsim/vhdlan/riviera only)")
	f.StringArrayVar(&flags.vlogArgs, "vlog-arg", nil, "Pass an argument to vlog calls (vsim/vlogan/riviera only)")
	f.BoolVar(&flags.onlyDefines, "only-defines", false, "Only output commands to define macros (Vivado only)")
	f.BoolVar(&flags.onlyIncludes, "only-includes", false, "Only output commands to define include directories (Vivado only)")
	f.BoolVar(&flags.onlySources, "only-sources", false, "Only output commands to define source files (Vivado only)")
	f.BoolVar(&flags.noSimset, "no-simset", false, "Do not change `simset` fileset (Vivado only)")
	f.StringVar(&flags.vloganBin, "vlogan-bin", "vlogan", "Specify a `vlogan` command")
	f.StringVar(&flags.vhdlanBin, "vhdlan-bin", "vhdlan", "Specify a `vhdlan` command")
	f.BoolVar(&flags.noAbortOnError, "no-abort-on-error", false, "Do not abort analysis/compilation on first caught error (only for programs that support early aborting)")
	f.Var(&flags.compilationMode, "compilation-mode", "Compilation mode, one of "+flags.compilationMode.HelpString())
	f.StringArrayVarP(&flags.packages, "package", "p", nil, "Specify package to show sources for")
	f.BoolVarP(&flags.noDeps, "no-deps", "n", false, "Exclude all dependencies, i.e. only top level or specified package(s)")
	f.StringArrayVarP(&flags.exclude, "exclude", "e", nil, "Specify package to exclude from sources")
	f.StringVar(&flags.template, "template", "", "Path to a file containing the template (template format only)")
	cmd.RegisterFlagCompletionFunc("compilation-mode", flags.compilationMode.CompletionFunc())

	return cmd
}

func (f *scriptFlags) options(format script.Format) script.Options {
	opts := script.Options{
		Format:          format,
		Targets:         f.targets,
		NoDefaultTarget: f.noDefaultTarget,
		VlogArgs:        f.vlogArgs,
		VcomArgs:        f.vcomArgs,
		VloganBin:       f.vloganBin,
		VhdlanBin:       f.vhdlanBin,
		NoAbortOnError:  f.noAbortOnError,
		RelativePath:    f.relativePath,
		CompilationMode: script.CompilationMode(f.compilationMode.Value()),
		OnlyDefines:     f.onlyDefines,
		OnlyIncludes:    f.onlyIncludes,
		OnlySources:     f.onlySources,
		NoSimset:        f.noSimset,
		Packages:        f.packages,
		Exclude:         f.exclude,
		NoDeps:          f.noDeps,
	}
	for _, d := range f.defines {
		opts.Defines = append(opts.Defines, source.ParseDefine(d))
	}
	return opts
}

func runScript(cmd *cobra.Command, global *globalFlags, flags *scriptFlags, format script.Format) error {
	opts := flags.options(format)

	switch {
	case format == script.Template && flags.template == "":
		return fmt.Errorf("%w: the template format requires --template", script.ErrOptionConflict)
	case format == script.Template:
		data, err := os.ReadFile(flags.template)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", flags.template, err)
		}
		opts.Template = string(data)
	case flags.template != "":
		msg.Warn("--template is ignored for the %s format", format)
	}

	// reject conflicting options before touching any manifest
	if err := opts.Validate(); err != nil {
		return err
	}

	resolver, err := manifest.NewResolver(global.dir)
	if err != nil {
		return err
	}
	tree, err := resolver.Sources(cmd.Context())
	if err != nil {
		return err
	}

	root := resolver.Root()
	return script.Generate(cmd.OutOrStdout(), tree, root.Dir, root.Name, opts)
}
