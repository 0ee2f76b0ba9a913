// hdlscript init [name], hdlscript new [path]
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func writefile(w io.Writer, content string, elem ...string) error {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("create file %s: %w", path, err)
		}
		fmt.Fprintf(w, "%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
	return nil
}

func mkdir(elem ...string) error {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "hdlscript"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// moduleName turns a package name into a SystemVerilog identifier.
func moduleName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

// initIn initializes a package in an existing specified directory
func initIn(w io.Writer, dir, name string, yamlSyntax bool) error {
	module := moduleName(name)

	if yamlSyntax {
		// Hdl.yml
		if err := writefile(w, `package:
  name: `+name+`
  version: 0.1.0
  authors: ["AzureDiamond"]

dependencies: {}

export_include_dirs: [include]

sources:
  - src/`+module+`.sv
  - target: simulation
    files:
      - test/tb_`+module+`.sv
`, dir, "Hdl.yml"); err != nil {
			return err
		}
	} else {
		// Hdl.toml
		if err := writefile(w, `export_include_dirs = ["include"]
sources = [
  "src/`+module+`.sv",
  { target = ["simulation"], files = ["test/tb_`+module+`.sv"] },
]

[package]
name = "`+name+`"
version = "0.1.0"
authors = ["AzureDiamond"]

[dependencies]
`, dir, "Hdl.toml"); err != nil {
			return err
		}
	}

	for _, sub := range []string{"src", "test", "include"} {
		if err := mkdir(dir, sub); err != nil {
			return err
		}
	}

	// src/<module>.sv
	if err := writefile(w, `module `+module+` (
  input  logic clk_i,
  input  logic rst_ni,
  output logic alive_o
);

  always_ff @(posedge clk_i or negedge rst_ni) begin
    if (!rst_ni) alive_o <= 1'b0;
    else         alive_o <= 1'b1;
  end

endmodule
`, dir, "src", module+".sv"); err != nil {
		return err
	}

	// test/tb_<module>.sv
	if err := writefile(w, `module tb_`+module+`;

  logic clk = 1'b0;
  logic rst_n = 1'b0;
  logic alive;

  always #5 clk = ~clk;

  `+module+` i_dut (
    .clk_i   ( clk   ),
    .rst_ni  ( rst_n ),
    .alive_o ( alive )
  );

  initial begin
    #20 rst_n = 1'b1;
    #20 $display("alive = %b", alive);
    $finish;
  end

endmodule
`, dir, "test", "tb_"+module+".sv"); err != nil {
		return err
	}

	// .gitignore
	if err := writefile(w, `.hdlscript/
`, dir, ".gitignore"); err != nil {
		return err
	}

	programName := getProgramName()
	fmt.Fprintf(w, "You can now do %s to list the sources, or %s for a simulation script.\n",
		color.HiCyanString(programName+" -d "+dir+" script flist"),
		color.HiCyanString(programName+" -d "+dir+" script vsim"))
	return nil
}

func newInitCmd() *cobra.Command {
	var yamlSyntax bool
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a new package in the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initIn(cmd.OutOrStdout(), ".", args[0], yamlSyntax)
		},
	}
	cmd.Flags().BoolVarP(&yamlSyntax, "yaml", "y", false, "Write the manifest as Hdl.yml")
	return cmd
}

func newNewCmd() *cobra.Command {
	var yamlSyntax bool
	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a new package in a new directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mkdir(args[0]); err != nil {
				return err
			}
			return initIn(cmd.OutOrStdout(), args[0], filepath.Base(args[0]), yamlSyntax)
		},
	}
	cmd.Flags().BoolVarP(&yamlSyntax, "yaml", "y", false, "Write the manifest as Hdl.yml")
	return cmd
}
