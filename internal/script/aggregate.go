package script

import (
	"slices"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/hdlscript/hdlscript/internal/source"
	"github.com/hdlscript/hdlscript/internal/target"
)

// Aggregates are the tree-wide collections shared by all output formats.
type Aggregates struct {
	GlobalDefines []source.Define
	// AllDefines is GlobalDefines followed by every group's defines, in
	// group order. Repeated names are kept; the last one wins in tools that
	// honor the later definition.
	AllDefines []source.Define
	AllIncdirs []string
	// AllFiles includes files of unknown type.
	AllFiles   []string
	AllVerilog []string
	AllVhdl    []string
	Batches    []Batch
}

// GlobalDefines returns a TARGET_<NAME> define per active target plus the
// user defines, sorted.
func GlobalDefines(targets target.Set, user []source.Define) []source.Define {
	defines := make([]source.Define, 0, targets.Len()+len(user))
	for _, name := range targets.Names() {
		defines = append(defines, source.Define{Name: "TARGET_" + strings.ToUpper(name)})
	}
	defines = append(defines, user...)
	slices.SortStableFunc(defines, source.Define.Compare)
	return defines
}

// Aggregate walks the flat groups once and collects everything the
// templates need.
func Aggregate(groups []*source.Group, global []source.Define) Aggregates {
	agg := Aggregates{
		GlobalDefines: global,
		AllDefines:    append([]source.Define{}, global...),
		Batches:       []Batch{},
	}
	incdirs := linkedhashset.New()
	files := linkedhashset.New()
	verilog := linkedhashset.New()
	vhdl := linkedhashset.New()

	for _, g := range groups {
		agg.AllDefines = append(agg.AllDefines, g.Defines.List()...)
		for _, dir := range g.IncDirs() {
			incdirs.Add(dir)
		}
		for _, path := range g.Paths() {
			files.Add(path)
		}
		for _, b := range Categorize(g, global) {
			for _, path := range b.Files {
				switch b.Category {
				case Verilog:
					verilog.Add(path)
				case Vhdl:
					vhdl.Add(path)
				}
			}
			agg.Batches = append(agg.Batches, b)
		}
	}

	agg.AllIncdirs = stringValues(incdirs)
	agg.AllFiles = stringValues(files)
	agg.AllVerilog = stringValues(verilog)
	agg.AllVhdl = stringValues(vhdl)
	return agg
}

func stringValues(set *linkedhashset.Set) []string {
	out := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(string))
	}
	return out
}
