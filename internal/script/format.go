package script

import (
	"errors"
	"fmt"

	"github.com/hdlscript/hdlscript/internal/source"
	"github.com/hdlscript/hdlscript/internal/target"
)

// Format names an output script flavor.
type Format string

const (
	Flist        Format = "flist"
	Vsim         Format = "vsim"
	Vcs          Format = "vcs"
	Verilator    Format = "verilator"
	Synopsys     Format = "synopsys"
	Formality    Format = "formality"
	Riviera      Format = "riviera"
	Genus        Format = "genus"
	Vivado       Format = "vivado"
	VivadoSim    Format = "vivado-sim"
	Precision    Format = "precision"
	Template     Format = "template"
	TemplateJSON Format = "template_json"
)

type backend struct {
	template       string
	defaultTargets []string
	// simulator formats accept extra vlog/vcom arguments
	simulator bool
	// vivado formats accept the partial output and simset flags
	vivado bool
}

var backends = map[Format]backend{
	Flist:        {template: flistTemplate, defaultTargets: []string{"flist"}},
	Vsim:         {template: vsimTemplate, defaultTargets: []string{"vsim", "simulation"}, simulator: true},
	Vcs:          {template: vcsTemplate, defaultTargets: []string{"vcs", "simulation"}, simulator: true},
	Verilator:    {template: verilatorTemplate, defaultTargets: []string{"verilator", "synthesis"}},
	Synopsys:     {template: synopsysTemplate, defaultTargets: []string{"synopsys", "synthesis"}},
	Formality:    {template: formalityTemplate, defaultTargets: []string{"synopsys", "synthesis", "formality"}},
	Riviera:      {template: rivieraTemplate, defaultTargets: []string{"riviera", "simulation"}, simulator: true},
	Genus:        {template: genusTemplate, defaultTargets: []string{"genus", "synthesis"}},
	Vivado:       {template: vivadoTemplate, defaultTargets: []string{"vivado", "fpga", "xilinx", "synthesis"}, vivado: true},
	VivadoSim:    {template: vivadoTemplate, defaultTargets: []string{"vivado", "fpga", "xilinx", "simulation"}, vivado: true},
	Precision:    {template: precisionTemplate, defaultTargets: []string{"precision", "fpga", "synthesis"}},
	Template:     {simulator: true, vivado: true},
	TemplateJSON: {simulator: true, vivado: true},
}

// Formats lists the supported formats in the order shown to users.
func Formats() []Format {
	return []Format{
		Flist, Vsim, Vcs, Verilator, Synopsys, Formality, Riviera,
		Genus, Vivado, VivadoSim, Precision, Template, TemplateJSON,
	}
}

func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := backends[f]; !ok {
		return "", fmt.Errorf("unknown format %q", s)
	}
	return f, nil
}

// DefaultTargets are the targets a format activates unless disabled.
func (f Format) DefaultTargets() []string {
	return append([]string(nil), backends[f].defaultTargets...)
}

// CompilationMode selects between one command per batch and one command per
// language.
type CompilationMode string

const (
	Separate CompilationMode = "separate"
	Common   CompilationMode = "common"
)

var (
	ErrOptionConflict = errors.New("option conflict")
	ErrRender         = errors.New("failed to render template")
)

// Options collect everything that shapes a generated script.
type Options struct {
	Format Format
	// Targets are activated in addition to the format defaults.
	Targets         []string
	NoDefaultTarget bool
	Defines         []source.Define

	VlogArgs  []string
	VcomArgs  []string
	VloganBin string
	VhdlanBin string

	NoAbortOnError  bool
	RelativePath    bool
	CompilationMode CompilationMode

	OnlyDefines  bool
	OnlyIncludes bool
	OnlySources  bool
	NoSimset     bool

	// Packages, Exclude and NoDeps restrict the packages emitted.
	Packages []string
	Exclude  []string
	NoDeps   bool

	// Template is the user template source for the template format.
	Template string
}

// Validate rejects option combinations that the selected format cannot
// honor. It runs before any dependency is resolved.
func (o *Options) Validate() error {
	b, ok := backends[o.Format]
	if !ok {
		return fmt.Errorf("unknown format %q", o.Format)
	}
	if (len(o.VlogArgs) > 0 || len(o.VcomArgs) > 0) && !b.simulator {
		return fmt.Errorf("%w: vsim/vcs-only options can only be used for 'vcs', 'vsim' or 'riviera' format", ErrOptionConflict)
	}
	if (o.OnlyDefines || o.OnlyIncludes || o.OnlySources || o.NoSimset) && !b.vivado {
		return fmt.Errorf("%w: Vivado-only options can only be used for 'vivado' format", ErrOptionConflict)
	}
	switch o.CompilationMode {
	case "", Separate, Common:
	default:
		return fmt.Errorf("unknown compilation mode %q", o.CompilationMode)
	}
	return nil
}

// ActiveTargets returns the user targets followed by the format defaults.
func (o *Options) ActiveTargets() target.Set {
	set := target.NewSet(o.Targets...)
	if !o.NoDefaultTarget {
		for _, name := range o.Format.DefaultTargets() {
			set.Add(name)
		}
	}
	return set
}

func (o *Options) mode() CompilationMode {
	if o.CompilationMode == "" {
		return Separate
	}
	return o.CompilationMode
}
