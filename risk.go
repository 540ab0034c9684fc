package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/HugeFrog24/bankdesk/risk"
)

// errReported marks a failure whose message has already been written.
var errReported = errors.New("error already reported")

func (a *app) newRiskCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "risk [features_json]",
		Short: "Score a loan applicant on a 0-10 risk scale",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.loadRiskModel()
			if err != nil {
				return err
			}

			var features risk.Features
			if len(args) == 0 {
				features = risk.SampleFeatures()
				printRiskUsage(cmd.ErrOrStderr(), features)
			} else {
				features, err = risk.ParseFeatures([]byte(args[0]))
				if errors.Is(err, risk.ErrInvalidJSON) {
					details := strings.TrimPrefix(err.Error(), risk.ErrInvalidJSON.Error()+": ")
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: Invalid JSON input provided. Details: %s\n", details)
					return errReported
				}
				if err != nil {
					return err
				}
			}

			probability := model.PredictProba(features)
			if explain {
				printContributions(cmd.OutOrStdout(), model, features, probability)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f\n", risk.Score(probability))
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print each feature's contribution before the score")
	return cmd
}

func printRiskUsage(w io.Writer, sample risk.Features) {
	example, _ := json.Marshal(sample)
	fmt.Fprintln(w, "Usage: bankdesk risk '<json_string>'")
	fmt.Fprintf(w, "Example: bankdesk risk '%s'\n", example)
	fmt.Fprintln(w, "No input given, scoring the sample record.")
}

func printContributions(w io.Writer, model *risk.Model, features risk.Features, probability float64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Feature", "Value", "Log-odds"})
	for _, c := range model.Explain(features) {
		table.Append([]string{
			c.Feature,
			fmt.Sprintf("%g", c.Value),
			fmt.Sprintf("%+.3f", c.LogOdds),
		})
	}
	table.SetFooter([]string{"intercept", "", fmt.Sprintf("%+.3f", model.Intercept)})
	table.Render()
	fmt.Fprintf(w, "Model: %s, probability %.4f\n", model.Name, probability)
}
