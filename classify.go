package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/HugeFrog24/bankdesk/router"
)

func (a *app) newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Show how the router filters and scores a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.loadRouter()
			if err != nil {
				return err
			}
			printDecision(cmd.OutOrStdout(), rt.Route(strings.Join(args, " ")))
			return nil
		},
	}
}

func printDecision(w io.Writer, decision router.Decision) {
	if decision.Rejected() {
		fmt.Fprintln(w, decision.Filter.Reason)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Department", "Score"})
	for _, s := range decision.Scores {
		table.Append([]string{s.Department, strconv.Itoa(s.Score)})
	}
	table.Render()

	if decision.Routed {
		fmt.Fprintln(w, "Department:", decision.Department)
	} else {
		fmt.Fprintln(w, "Department: none")
	}
}
