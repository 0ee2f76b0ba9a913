package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// EnumOption is one accepted value of an EnumValue.
type EnumOption struct {
	Name string
	Help string
}

// EnumValue is a pflag.Value restricted to a fixed list of options. Help
// text, errors and completions list the options in declaration order.
type EnumValue struct {
	value   string
	options []EnumOption
}

func NewEnumValue(defaultVal string, options ...EnumOption) EnumValue {
	e := EnumValue{value: defaultVal, options: options}
	if !slices.Contains(e.Names(), defaultVal) {
		panic(fmt.Sprintf("default value %q not in %s", defaultVal, e.HelpString()))
	}
	return e
}

func (e *EnumValue) String() string     { return e.value }
func (e *EnumValue) Type() string       { return "enum" }
func (e *EnumValue) Value() string      { return e.value }
func (e *EnumValue) HelpString() string { return "[" + strings.Join(e.Names(), ", ") + "]" }

func (e *EnumValue) Names() []string {
	names := make([]string, 0, len(e.options))
	for _, opt := range e.options {
		names = append(names, opt.Name)
	}
	return names
}

func (e *EnumValue) Set(v string) error {
	if !slices.Contains(e.Names(), v) {
		return fmt.Errorf("must be one of: %s", strings.Join(e.Names(), ", "))
	}
	e.value = v
	return nil
}

// CompletionFunc completes the options starting with the typed prefix.
func (e *EnumValue) CompletionFunc() cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		var items []cobra.Completion
		for _, opt := range e.options {
			if !strings.HasPrefix(opt.Name, toComplete) {
				continue
			}
			if opt.Help == "" {
				items = append(items, opt.Name)
			} else {
				items = append(items, cobra.CompletionWithDesc(opt.Name, opt.Help))
			}
		}
		return items, cobra.ShellCompDirectiveNoFileComp
	}
}
