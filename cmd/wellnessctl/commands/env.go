package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the resolved environment and server addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := c.rt.Environment
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "environment: %s\n", env.Name)
			fmt.Fprintf(out, "uploads:     %s\n", env.UploadsAddress)
			fmt.Fprintf(out, "debug:       %t\n", env.DebugEnabled)
			fmt.Fprintln(out, "candidates:")
			for i, addr := range c.rt.Client.Candidates() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, addr)
			}
			fmt.Fprintf(out, "logged in:   %t\n", c.rt.Auth.LoggedIn())
			return nil
		},
	}
}
