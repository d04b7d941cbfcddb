package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"accredit/internal/certification/catalog"
	"accredit/internal/certification/models"
)

func tiersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Print the certificate levels and their thresholds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTiers(cmd.OutOrStdout(), catalog.Default().All())
		},
	}
}

func printTiers(w io.Writer, tiers []models.RequirementProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tPRICE\tSESSIONS\tAVG\tMOOTS\tAREAS")
	for _, t := range tiers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			t.Key, t.DisplayName, t.Price,
			t.MinScoredSessions, t.MinAverageScore, t.MinGroupMoots, t.MinAreasOfLaw)
	}
	return tw.Flush()
}
