// hdlscript packages
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hdlscript/hdlscript/internal/manifest"
)

func newPackagesCmd(global *globalFlags) *cobra.Command {
	var graph bool

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the resolved packages, dependencies first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := manifest.NewResolver(global.dir)
			if err != nil {
				return err
			}
			pkgs, err := resolver.Packages(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, pkg := range pkgs {
				if graph {
					if len(pkg.Deps) == 0 {
						fmt.Fprintln(w, pkg.Name)
					} else {
						fmt.Fprintf(w, "%s\t%s\n", pkg.Name, strings.Join(pkg.Deps, " "))
					}
					continue
				}
				version := pkg.Version()
				if version == "" {
					version = "-"
				}
				name := pkg.Name
				if pkg.IsRoot {
					name = color.HiCyanString(name)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, version, pkg.Dir)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&graph, "graph", "g", false, "Print the direct dependencies of each package")
	return cmd
}
