package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Freeeeeet/wellness_client/internal/model"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (c *cli) plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage your plans",
	}
	cmd.AddCommand(
		c.plansListCmd(),
		c.plansCreateCmd(),
		c.plansUpdateCmd(),
		c.plansToggleCmd(),
		c.plansDeleteCmd(),
	)
	return cmd
}

func (c *cli) plansListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := c.rt.Plans.ListMine(cmd.Context())
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plans yet")
				return nil
			}
			printPlans(cmd.OutOrStdout(), plans)
			return nil
		},
	}
}

// formFlags binds the plan form fields to flags.
func formFlags(fs *pflag.FlagSet, form *service.PlanForm) {
	fs.StringVar(&form.Name, "name", form.Name, "plan name")
	fs.StringVar(&form.Type, "type", form.Type, "single or monthly")
	fs.StringVar(&form.Description, "description", form.Description, "free text description")
	fs.StringVar(&form.SessionClassType, "class-type", form.SessionClassType, "session class type")
	fs.StringVar(&form.SessionFormat, "format", form.SessionFormat, "one-on-one or one-to-many")
	fs.StringVar(&form.Price, "price", form.Price, "price per class (single)")
	fs.StringVar(&form.Duration, "duration", form.Duration, "minutes, 30 to 240 in steps of 15 (single)")
	fs.StringVar(&form.ScheduledDate, "date", form.ScheduledDate, "YYYY-MM-DD (one-to-many)")
	fs.StringVar(&form.ScheduledTime, "time", form.ScheduledTime, "HH:MM (one-to-many)")
	fs.StringVar(&form.MonthlyPrice, "monthly-price", form.MonthlyPrice, "price per month (monthly)")
	fs.StringVar(&form.ClassesPerMonth, "classes", form.ClassesPerMonth, "classes per month (monthly)")
}

func (c *cli) plansCreateCmd() *cobra.Command {
	form := service.NewPlanForm()

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan; new plans start active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := c.rt.Plans.Create(cmd.Context(), form)
			if created == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s (%s)\n", created.ID, created.Name)
			return err
		},
	}
	formFlags(cmd.Flags(), form)
	return cmd
}

func (c *cli) plansUpdateCmd() *cobra.Command {
	// flags are parsed into overrides, then copied over the current plan
	overrides := service.NewPlanForm()
	var active bool

	cmd := &cobra.Command{
		Use:   "update <plan-id>",
		Short: "Change fields of a plan; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.findPlan(cmd, args[0])
			if err != nil {
				return err
			}

			form := service.PlanFormFrom(plan)
			applyChanged(cmd.Flags(), form, overrides)
			if cmd.Flags().Changed("active") {
				form.IsActive = active
			}

			updated, err := c.rt.Plans.Update(cmd.Context(), plan.ID, form)
			if updated == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated plan %s (%s)\n", updated.ID, updated.Name)
			return err
		},
	}
	formFlags(cmd.Flags(), overrides)
	cmd.Flags().BoolVar(&active, "active", true, "whether clients can book the plan")
	return cmd
}

// applyChanged copies the fields whose flags were set on the command line.
func applyChanged(fs *pflag.FlagSet, form, overrides *service.PlanForm) {
	fields := map[string]struct{ dst, src *string }{
		"name":          {&form.Name, &overrides.Name},
		"type":          {&form.Type, &overrides.Type},
		"description":   {&form.Description, &overrides.Description},
		"class-type":    {&form.SessionClassType, &overrides.SessionClassType},
		"format":        {&form.SessionFormat, &overrides.SessionFormat},
		"price":         {&form.Price, &overrides.Price},
		"duration":      {&form.Duration, &overrides.Duration},
		"date":          {&form.ScheduledDate, &overrides.ScheduledDate},
		"time":          {&form.ScheduledTime, &overrides.ScheduledTime},
		"monthly-price": {&form.MonthlyPrice, &overrides.MonthlyPrice},
		"classes":       {&form.ClassesPerMonth, &overrides.ClassesPerMonth},
	}
	for name, f := range fields {
		if fs.Changed(name) {
			*f.dst = *f.src
		}
	}
}

func (c *cli) plansToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <plan-id>",
		Short: "Activate an inactive plan or deactivate an active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.findPlan(cmd, args[0])
			if err != nil {
				return err
			}

			err = c.rt.Plans.ToggleActive(cmd.Context(), plan)
			if err != nil && !errors.Is(err, service.ErrResyncFailed) {
				return err
			}

			state := "active"
			if plan.IsActive {
				state = "inactive"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan %s is now %s\n", plan.ID, state)
			return err
		},
	}
}

func (c *cli) plansDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deleting a plan cannot be undone, pass --yes to confirm")
			}

			err := c.rt.Plans.Delete(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, service.ErrResyncFailed) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// findPlan loads the plan list and returns plan id from it.
func (c *cli) findPlan(cmd *cobra.Command, id string) (*model.Plan, error) {
	if _, err := c.rt.Plans.ListMine(cmd.Context()); err != nil {
		return nil, err
	}
	plan, ok := c.rt.Plans.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", service.ErrPlanNotFound, id)
	}
	return plan, nil
}

func printPlans(w io.Writer, plans []model.Plan) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tFORMAT\tPRICE\tDETAILS\tACTIVE")

	for i := range plans {
		p := &plans[i]
		var details string
		var price float64
		switch o := p.Offering.(type) {
		case *model.SingleOffering:
			price = o.Price
			details = fmt.Sprintf("%d min", o.Duration)
			if o.Schedule != nil {
				details += fmt.Sprintf(" on %s %s", o.Schedule.Date, o.Schedule.Time)
			}
		case *model.MonthlyOffering:
			price = o.MonthlyPrice
			details = fmt.Sprintf("%d classes/month", o.ClassesPerMonth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%s\t%t\n",
			p.ID, p.Name, p.Type(), p.SessionFormat, price, details, p.IsActive)
	}
	_ = tw.Flush()
}
