package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"silica/internal/event"
	"silica/internal/serialize"
)

var eventsCmd = &cobra.Command{
	Use:   "events <archive>",
	Short: "List debug event fires recorded in an IR archive",
	Args:  cobra.ExactArgs(1),
	RunE:  eventsExecution,
}

func eventsExecution(cmd *cobra.Command, args []string) error {
	archive, err := serialize.ReadFile(args[0])
	if err != nil {
		return reportErr(cmd, err)
	}
	_, top, err := archive.Restore()
	if err != nil {
		return reportErr(cmd, err)
	}

	infos := event.Extract(top)
	out := cmd.OutOrStdout()
	for _, info := range infos {
		domain := "sequential"
		if info.Combinational {
			domain = "combinational"
		}
		cond := "always"
		if info.Condition != nil {
			cond = info.Condition.String()
		}
		fmt.Fprintf(out, "%s [%s, %s] when %s", info.Name, domain, info.Action, cond)
		if info.Transaction != "" {
			fmt.Fprintf(out, " txn=%s", info.Transaction)
		}
		for _, f := range info.Fields {
			fmt.Fprintf(out, " %s=%s", f.Name, f.Signal.String())
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d event fire(s)\n", len(infos))
	return nil
}
