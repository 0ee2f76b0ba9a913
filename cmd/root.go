package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hdlscript/hdlscript/internal/msg"
)

type globalFlags struct {
	dir     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var global globalFlags

	rootCmd := &cobra.Command{
		Use:   "hdlscript",
		Short: "Generate EDA tool scripts for HDL packages",
		Long: `hdlscript resolves an HDL package and its dependencies from Hdl.toml
(or Hdl.yml) manifests and prints compile scripts for simulators,
synthesis and FPGA tools.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			msg.SetVerbose(global.verbose)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&global.dir, "dir", "d", ".", "Root directory of the package")
	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "Print debug output")

	rootCmd.AddCommand(
		newScriptCmd(&global),
		newPackagesCmd(&global),
		newInitCmd(),
		newNewCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		msg.Error("%v", err)
		os.Exit(1)
	}
}
