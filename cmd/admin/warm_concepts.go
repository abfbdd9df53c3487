package main

import (
	"context"
	"fmt"

	"github.com/mcunha12/medstudent/internal/app"

	"github.com/spf13/cobra"
)

var warmConceptsCmd = &cobra.Command{
	Use:   "warm-concepts",
	Short: "Generate concept explanations for subtopics that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if limit < 0 || concurrency < 1 {
			return fmt.Errorf("--limit must be >= 0 and --concurrency >= 1")
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			report, err := a.Concepts.WarmConcepts(ctx, limit, concurrency)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "candidates=%d created=%d failed=%d\n",
				report.Candidates, report.Created, report.Failed)
			return nil
		})
	},
}

func init() {
	warmConceptsCmd.Flags().Int("limit", 20, "maximum number of subtopics to generate (0 means all)")
	warmConceptsCmd.Flags().Int("concurrency", 2, "number of parallel AI requests")
}
