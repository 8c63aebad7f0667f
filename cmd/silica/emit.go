package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"silica/internal/codegen"
	"silica/internal/config"
	"silica/internal/event"
	"silica/internal/ir"
	"silica/internal/serialize"
)

var (
	emitOut         string
	emitStdout      bool
	emitParallel    bool
	emitStripEvents bool
	emitCheck       bool
)

func init() {
	emitCmd.Flags().StringVarP(&emitOut, "out", "o", "", "output directory (default from silica.toml)")
	emitCmd.Flags().BoolVar(&emitStdout, "stdout", false, "print generated modules instead of writing files")
	emitCmd.Flags().BoolVar(&emitParallel, "parallel", true, "render independent modules concurrently")
	emitCmd.Flags().BoolVar(&emitStripEvents, "strip-events", true, "remove debug event statements before lowering")
	emitCmd.Flags().BoolVar(&emitCheck, "check", true, "verify driver sets before lowering")
}

var emitCmd = &cobra.Command{
	Use:   "emit [flags] <archive>",
	Short: "Lower an IR archive to SystemVerilog",
	Long:  "Lower a serialized IR archive (.json or msgpack) into one SystemVerilog file per module.",
	Args:  cobra.ExactArgs(1),
	RunE:  emitExecution,
}

func emitExecution(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := config.Load(filepath.Join(filepath.Dir(path), config.DefaultFile))
	if err != nil {
		return reportErr(cmd, err)
	}
	outDir := cfg.Project.Output
	if emitOut != "" {
		outDir = emitOut
	}

	archive, err := serialize.ReadFile(path)
	if err != nil {
		return reportErr(cmd, err)
	}
	ctx, top, err := archive.Restore()
	if err != nil {
		return reportErr(cmd, err)
	}
	if cfg.Project.Top != "" {
		if named := ctx.Module(cfg.Project.Top); named != nil {
			top = named
		}
	}

	if emitStripEvents {
		event.Remove(top)
	}
	if emitCheck {
		if err := ir.CheckDesignDrivers(top); err != nil {
			return reportErr(cmd, err)
		}
	}

	opts := codegen.Options{IndentSize: cfg.Codegen.Indent}
	var srcs map[string]string
	if emitParallel {
		srcs, err = codegen.GenerateParallel(top, opts)
	} else {
		srcs, err = codegen.Generate(top, opts)
	}
	if err != nil {
		return reportErr(cmd, err)
	}

	names := make([]string, 0, len(srcs))
	for name := range srcs {
		names = append(names, name)
	}
	sort.Strings(names)

	if emitStdout {
		for _, name := range names {
			fmt.Fprint(cmd.OutOrStdout(), srcs[name])
		}
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return reportErr(cmd, err)
	}
	for _, name := range names {
		target := filepath.Join(outDir, name+".sv")
		if err := os.WriteFile(target, []byte(srcs[name]), 0o644); err != nil {
			return reportErr(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
	}
	return nil
}

// reportErr prints err in red when the terminal supports it and passes it
// back to cobra.
func reportErr(cmd *cobra.Command, err error) error {
	if useColor(cmd, os.Stderr) {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		cmd.SilenceErrors = true
	}
	return err
}
