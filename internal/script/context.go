package script

import (
	"encoding/json"

	"github.com/hdlscript/hdlscript/internal/source"
	"github.com/hdlscript/hdlscript/internal/target"
)

const headerAutogen = "This script was generated automatically by hdlscript."

// Context is the data every template renders. The JSON names are the keys
// templates address and the template_json format prints; they are stable.
type Context struct {
	HeaderAutogen   string          `json:"HEADER_AUTOGEN"`
	Root            string          `json:"root"`
	AbortOnError    bool            `json:"abort_on_error"`
	GlobalDefines   []source.Define `json:"global_defines"`
	AllDefines      []source.Define `json:"all_defines"`
	AllIncdirs      []string        `json:"all_incdirs"`
	AllFiles        []string        `json:"all_files"`
	Srcs            []Batch         `json:"srcs"`
	AllVerilog      []string        `json:"all_verilog"`
	AllVhdl         []string        `json:"all_vhdl"`
	VlogArgs        []string        `json:"vlog_args"`
	VcomArgs        []string        `json:"vcom_args"`
	VloganBin       string          `json:"vlogan_bin"`
	VhdlanBin       string          `json:"vhdlan_bin"`
	RelativizePath  bool            `json:"relativize_path"`
	CompilationMode CompilationMode `json:"compilation_mode"`
	VivadoFilesets  []string        `json:"vivado_filesets"`
}

// NewContext builds the render context for the flat groups under the active
// targets. The partial output flags empty out the collections they exclude;
// GlobalDefines is always kept.
func NewContext(root string, targets target.Set, groups []*source.Group, opts Options) *Context {
	global := GlobalDefines(targets, opts.Defines)
	agg := Aggregate(groups, global)

	ctx := &Context{
		HeaderAutogen:   headerAutogen,
		Root:            root,
		AbortOnError:    !opts.NoAbortOnError,
		GlobalDefines:   global,
		AllDefines:      agg.AllDefines,
		AllIncdirs:      agg.AllIncdirs,
		AllFiles:        agg.AllFiles,
		Srcs:            agg.Batches,
		AllVerilog:      agg.AllVerilog,
		AllVhdl:         agg.AllVhdl,
		VlogArgs:        orEmpty(opts.VlogArgs),
		VcomArgs:        orEmpty(opts.VcomArgs),
		VloganBin:       orDefault(opts.VloganBin, "vlogan"),
		VhdlanBin:       orDefault(opts.VhdlanBin, "vhdlan"),
		RelativizePath:  opts.RelativePath,
		CompilationMode: opts.mode(),
		VivadoFilesets:  []string{"", " -simset"},
	}
	if opts.NoSimset {
		ctx.VivadoFilesets = []string{""}
	}

	// the flags combine: each one drops what it does not name
	if opts.OnlyIncludes || opts.OnlySources {
		ctx.AllDefines = []source.Define{}
	}
	if opts.OnlyDefines || opts.OnlySources {
		ctx.AllIncdirs = []string{}
	}
	if opts.OnlyDefines || opts.OnlyIncludes {
		ctx.AllFiles = []string{}
		ctx.Srcs = []Batch{}
		ctx.AllVerilog = []string{}
		ctx.AllVhdl = []string{}
	}
	return ctx
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// view returns the context as the keyed document templates render over.
func (c *Context) view() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var view map[string]any
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return view, nil
}
