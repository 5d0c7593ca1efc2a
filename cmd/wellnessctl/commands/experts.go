package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/spf13/cobra"
)

func (c *cli) expertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experts",
		Short: "Browse the expert directory",
	}
	cmd.AddCommand(c.expertsListCmd(), c.expertsShowCmd())
	return cmd
}

func (c *cli) expertsListCmd() *cobra.Command {
	var filter service.ExpertFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List experts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			experts, err := c.rt.Experts.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(experts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No experts found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION\tEXPERIENCE\tRATING")
			for _, e := range experts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d yrs\t%.1f\n", e.ID, e.Name, e.Specialization, e.ExperienceYears, e.Rating)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Specialization, "specialization", "", "only experts with this specialization")
	cmd.Flags().StringVar(&filter.Search, "search", "", "free text search")
	return cmd
}

func (c *cli) expertsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <expert-id>",
		Short: "Show an expert and the plans they offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expert, err := c.rt.Experts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			plans, err := c.rt.Experts.Plans(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", expert.Name, expert.Specialization)
			if expert.Bio != "" {
				fmt.Fprintln(out, expert.Bio)
			}
			if len(expert.Languages) > 0 {
				fmt.Fprintf(out, "Languages: %s\n", strings.Join(expert.Languages, ", "))
			}
			fmt.Fprintln(out)

			if len(plans) == 0 {
				fmt.Fprintln(out, "No plans offered")
				return nil
			}
			printPlans(out, plans)
			return nil
		},
	}
}
