package script

import "strings"

// Built-in templates. They address the context by its JSON keys, like user
// templates do. Commands end with " \" continuation lines so every
// emitted script is plain text the target tool reads as is. Paths under the
// root are written relative to a ROOT variable set at the top.

const flistTemplate = `
{{- range .all_incdirs -}}
+incdir+{{ if $.relativize_path }}{{ relative . }}{{ else }}{{ . }}{{ end }}
{{ end -}}
{{- range .all_defines -}}
+define+{{ define . }}
{{ end -}}
{{- range .all_files -}}
{{ if $.relativize_path }}{{ relative . }}{{ else }}{{ . }}{{ end }}
{{ end -}}
`

// simTclSkeleton serves the Tcl driven simulators. @PROLOGUE@ and @VLOG@ are
// replaced per tool.
const simTclSkeleton = `# {{ .HEADER_AUTOGEN }}
set ROOT "{{ .root }}"@PROLOGUE@
{{- if eq .compilation_mode "separate" }}
{{- range .srcs }}

{{ if $.abort_on_error }}if {[catch { {{ end }}
{{- if eq .file_type "verilog" }}@VLOG@ \
{{- range $.vlog_args }}
    {{ . }} \
{{- end }}
{{- range .defines }}
    +define+{{ define . }} \
{{- end }}
{{- range .incdirs }}
    "+incdir+{{ root . }}" \
{{- end }}
{{- else }}vcom -2008 \
{{- range $.vcom_args }}
    {{ . }} \
{{- end }}
{{- end }}
{{- range $i, $f := .files }}{{ if $i }} \{{ end }}
    "{{ root $f }}"
{{- end }}
{{- if $.abort_on_error }} \
}]} {return 1}
{{- end }}
{{- end }}
{{- else }}
{{- with .all_verilog }}

{{ if $.abort_on_error }}if {[catch { {{ end }}@VLOG@ \
{{- range $.vlog_args }}
    {{ . }} \
{{- end }}
{{- range $.all_defines }}
    +define+{{ define . }} \
{{- end }}
{{- range $.all_incdirs }}
    "+incdir+{{ root . }}" \
{{- end }}
{{- range $i, $f := . }}{{ if $i }} \{{ end }}
    "{{ root $f }}"
{{- end }}
{{- if $.abort_on_error }} \
}]} {return 1}
{{- end }}
{{- end }}
{{- with .all_vhdl }}

{{ if $.abort_on_error }}if {[catch { {{ end }}vcom -2008 \
{{- range $.vcom_args }}
    {{ . }} \
{{- end }}
{{- range $i, $f := . }}{{ if $i }} \{{ end }}
    "{{ root $f }}"
{{- end }}
{{- if $.abort_on_error }} \
}]} {return 1}
{{- end }}
{{- end }}
{{- end }}
`

var (
	vsimTemplate = strings.NewReplacer(
		"@PROLOGUE@", "",
		"@VLOG@", "vlog -incr -sv",
	).Replace(simTclSkeleton)
	rivieraTemplate = strings.NewReplacer(
		"@PROLOGUE@", "\nvlib work",
		"@VLOG@", "vlog -sv",
	).Replace(simTclSkeleton)
)

const vcsTemplate = `#!/usr/bin/env bash
# {{ .HEADER_AUTOGEN }}
{{- if .abort_on_error }}
set -e
{{- end }}
ROOT="{{ .root }}"
{{- if eq .compilation_mode "separate" }}
{{- range .srcs }}

{{ if eq .file_type "verilog" }}{{ $.vlogan_bin }} -sverilog \
    -full64 \
{{- range $.vlog_args }}
    {{ . }} \
{{- end }}
{{- range .defines }}
    +define+{{ define . }} \
{{- end }}
{{- range .incdirs }}
    "+incdir+{{ root . }}" \
{{- end }}
{{- else }}{{ $.vhdlan_bin }} \
{{- range $.vcom_args }}
    {{ . }} \
{{- end }}
{{- end }}
{{- range $i, $f := .files }}{{ if $i }} \{{ end }}
    "{{ root $f }}"
{{- end }}
{{- end }}
{{- else }}
{{- with .all_verilog }}

{{ $.vlogan_bin }} -sverilog \
    -full64 \
{{- range $.vlog_args }}
    {{ . }} \
{{- end }}
{{- range $.all_defines }}
    +define+{{ define . }} \
{{- end }}
{{- range $.all_incdirs }}
    "+incdir+{{ root . }}" \
{{- end }}
{{- range $i, $f := . }}{{ if $i }} \{{ end }}
    "{{ root $f }}"
{{- end }}
{{- end }}
{{- with .all_vhdl }}

{{ $.vhdlan_bin }} \
{{- range $.vcom_args }}
    {{ . }} \
{{- end }}
{{- range $i, $f := . }}{{ if $i }} \{{ end }}
    "{{ root $f }}"
{{- end }}
{{- end }}
{{- end }}
`

// Verilator reads a plain argument file; VHDL batches are left out.
const verilatorTemplate = `
{{- range .srcs }}{{ if eq .file_type "verilog" }}
{{- range $.vlog_args }}
{{ . }}
{{- end }}
{{- range .defines }}
+define+{{ define . }}
{{- end }}
{{- range .incdirs }}
+incdir+{{ root . }}
{{- end }}
{{- range .files }}
{{ . }}
{{- end }}
{{ end }}{{ end -}}
`

// tclAnalyzeSkeleton serves the synthesis and equivalence tools that keep a
// search_path. @INIT@ saves the initial path, @SEARCH@ publishes it to the
// tool, @VLOG@ and @VHDL@ are the read commands.
const tclAnalyzeSkeleton = `# {{ .HEADER_AUTOGEN }}
@INIT@
set ROOT "{{ .root }}"
{{- if eq .compilation_mode "separate" }}
{{- range .srcs }}

set search_path $search_path_initial
{{- range .incdirs }}
lappend search_path "{{ root . }}"
{{- end }}@SEARCH@

{{ if $.abort_on_error }}if {[catch { {{ end }}{{ if eq .file_type "verilog" }}@VLOG@{{ else }}@VHDL@{{ end }} \
{{- range $i, $d := .defines }}
{{- if not $i }}
    -define { \
{{- end }}
        {{ define $d }} \
{{- end }}
{{- if .defines }}
    } \
{{- end }}
    [list \
{{- range .files }}
        "{{ root . }}" \
{{- end }}
    ]
{{- if $.abort_on_error }}
}]} {return 1}
{{- end }}
{{- end }}
{{- else }}
{{- with .all_verilog }}

set search_path $search_path_initial
{{- range $.all_incdirs }}
lappend search_path "{{ root . }}"
{{- end }}@SEARCH@

{{ if $.abort_on_error }}if {[catch { {{ end }}@VLOG@ \
{{- range $i, $d := $.all_defines }}
{{- if not $i }}
    -define { \
{{- end }}
        {{ define $d }} \
{{- end }}
{{- if $.all_defines }}
    } \
{{- end }}
    [list \
{{- range . }}
        "{{ root . }}" \
{{- end }}
    ]
{{- if $.abort_on_error }}
}]} {return 1}
{{- end }}
{{- end }}
{{- with .all_vhdl }}

{{ if $.abort_on_error }}if {[catch { {{ end }}@VHDL@ \
    [list \
{{- range . }}
        "{{ root . }}" \
{{- end }}
    ]
{{- if $.abort_on_error }}
}]} {return 1}
{{- end }}
{{- end }}
{{- end }}

set search_path $search_path_initial
`

var (
	synopsysTemplate = strings.NewReplacer(
		"@INIT@", "set search_path_initial $search_path",
		"@SEARCH@", "",
		"@VLOG@", "analyze -format sv",
		"@VHDL@", "analyze -format vhdl",
	).Replace(tclAnalyzeSkeleton)
	formalityTemplate = strings.NewReplacer(
		"@INIT@", "set search_path_initial $search_path",
		"@SEARCH@", "",
		"@VLOG@", "read_sverilog -r",
		"@VHDL@", "read_vhdl -r",
	).Replace(tclAnalyzeSkeleton)
	genusTemplate = strings.NewReplacer(
		"@INIT@", "if {[info exists search_path]} {\n  set search_path_initial $search_path\n} else {\n  set search_path_initial {}\n}",
		"@SEARCH@", "\nset_db init_hdl_search_path $search_path",
		"@VLOG@", "read_hdl -language sv",
		"@VHDL@", "read_hdl -language vhdl",
	).Replace(tclAnalyzeSkeleton)
)

const vivadoTemplate = `# {{ .HEADER_AUTOGEN }}
set ROOT "{{ .root }}"
{{- if eq .compilation_mode "separate" }}
{{- range .srcs }}
add_files -norecurse -fileset [current_fileset] [list \
{{- range .files }}
    {{ root . }} \
{{- end }}
]
{{- end }}
{{- else }}
{{- with .all_files }}
add_files -norecurse -fileset [current_fileset] [list \
{{- range . }}
    {{ root . }} \
{{- end }}
]
{{- end }}
{{- end }}
{{- range $fs := .vivado_filesets }}
{{- with $.all_incdirs }}

set_property include_dirs [list \
{{- range . }}
    {{ root . }} \
{{- end }}
] [current_fileset{{ $fs }}]
{{- end }}
{{- end }}
{{- range $fs := .vivado_filesets }}
{{- with $.all_defines }}

set_property verilog_define [list \
{{- range . }}
    {{ define . }} \
{{- end }}
] [current_fileset{{ $fs }}]
{{- end }}
{{- end }}
`

// Precision ignores relative include dirs, so paths stay absolute.
const precisionTemplate = `# {{ .HEADER_AUTOGEN }}
set ROOT {{ .root }}
set_input_dir $ROOT
setup_design -search_path $ROOT
{{- with .all_defines }}

setup_design -defines { \
{{- range $i, $d := . }}{{ if $i }} \{{ end }}
    +define+{{ define $d }}
{{- end }}
}
{{- end }}
{{- if eq .compilation_mode "separate" }}
{{- range .srcs }}

{{ if $.abort_on_error }}if {[catch { {{ end }}add_input_file \
{{- if eq .file_type "verilog" }}
    -format SystemVerilog2012 \
{{- with .incdirs }}
    -search_path { \
{{- range . }}
        {{ . }} \
{{- end }}
    } \
{{- end }}
{{- else }}
    -format vhdl_2008 \
{{- end }}
    { \
{{- range .files }}
        {{ . }} \
{{- end }}
    }
{{- if $.abort_on_error }} \
}]} {return 1}
{{- end }}
{{- end }}
{{- else }}
{{- with .all_verilog }}

{{ if $.abort_on_error }}if {[catch { {{ end }}add_input_file \
    -format SystemVerilog2012 \
{{- with $.all_incdirs }}
    -search_path { \
{{- range . }}
        {{ . }} \
{{- end }}
    } \
{{- end }}
    { \
{{- range . }}
        {{ . }} \
{{- end }}
    }
{{- if $.abort_on_error }} \
}]} {return 1}
{{- end }}
{{- end }}
{{- with .all_vhdl }}

{{ if $.abort_on_error }}if {[catch { {{ end }}add_input_file \
    -format vhdl_2008 \
    { \
{{- range . }}
        {{ . }} \
{{- end }}
    }
{{- if $.abort_on_error }} \
}]} {return 1}
{{- end }}
{{- end }}
{{- end }}
`
