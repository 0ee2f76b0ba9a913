package script

import (
	"path/filepath"

	"github.com/hdlscript/hdlscript/internal/source"
)

// Category is the HDL language of a source file.
type Category int

const (
	Unclassified Category = iota
	Verilog
	Vhdl
)

func (c Category) String() string {
	switch c {
	case Verilog:
		return "verilog"
	case Vhdl:
		return "vhdl"
	}
	return ""
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify maps a file path to its category by extension. Matching is case
// sensitive.
func Classify(path string) Category {
	switch filepath.Ext(path) {
	case ".sv", ".v", ".vp":
		return Verilog
	case ".vhd", ".vhdl":
		return Vhdl
	}
	return Unclassified
}

// Batch is a run of same-category files from one flat group, together with
// the compile configuration that applies to it.
type Batch struct {
	Category Category        `json:"file_type"`
	Defines  []source.Define `json:"defines"`
	Incdirs  []string        `json:"incdirs"`
	Files    []string        `json:"files"`
}

// Categorize splits the files of a flat group into maximal runs of one
// category. Unclassified files are skipped and do not break a run, so no two
// adjacent batches share a category. Every batch carries the group's merged
// include dirs and the global defines followed by the group's own.
func Categorize(g *source.Group, global []source.Define) []Batch {
	defines := append(append([]source.Define{}, global...), g.Defines.List()...)
	incdirs := g.IncDirs()
	if incdirs == nil {
		incdirs = []string{}
	}

	var (
		batches []Batch
		current Category
		run     []string
	)
	flush := func() {
		if len(run) > 0 {
			batches = append(batches, Batch{
				Category: current,
				Defines:  defines,
				Incdirs:  incdirs,
				Files:    run,
			})
			run = nil
		}
	}
	for _, path := range g.Paths() {
		cat := Classify(path)
		if cat == Unclassified {
			continue
		}
		if cat != current {
			flush()
			current = cat
		}
		run = append(run, path)
	}
	flush()
	return batches
}
