package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"silica/internal/ir"
	"silica/internal/serialize"
)

var (
	treeModuleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	treeInstanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	treeStatStyle     = lipgloss.NewStyle().Faint(true)
)

var treeCmd = &cobra.Command{
	Use:   "tree <archive>",
	Short: "Show the module hierarchy of an IR archive",
	Args:  cobra.ExactArgs(1),
	RunE:  treeExecution,
}

func treeExecution(cmd *cobra.Command, args []string) error {
	archive, err := serialize.ReadFile(args[0])
	if err != nil {
		return reportErr(cmd, err)
	}
	_, top, err := archive.Restore()
	if err != nil {
		return reportErr(cmd, err)
	}
	var b strings.Builder
	printTree(&b, top, top.Name(), 0)
	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}

func printTree(b *strings.Builder, g *ir.Generator, label string, depth int) {
	indent := strings.Repeat("  ", depth)
	line := treeModuleStyle.Render(g.Name())
	if label != g.Name() {
		line = treeInstanceStyle.Render(label) + ": " + line
	}
	stats := treeStatStyle.Render(fmt.Sprintf("(%d ports, %d vars, %d stmts)",
		len(g.Ports()), len(g.Vars()), len(g.Stmts())))
	fmt.Fprintf(b, "%s%s %s\n", indent, line, stats)
	for _, child := range g.Children() {
		printTree(b, child.Module, child.InstanceName, depth+1)
	}
}
