package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/app"
	"github.com/Freeeeeet/wellness_client/internal/config"
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type cli struct {
	home    string
	envName string
	verbose bool

	rt     *app.Runtime
	logger *zap.Logger
}

func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
	}
	return err
}

func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:               "wellnessctl",
		Short:             "Manage wellness plans from the terminal",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.home, "home", "", "session dir (default $WELLNESS_HOME or ~/.wellness)")
	root.PersistentFlags().StringVar(&c.envName, "env", "", "environment: development, staging or production (default $APP_ENV)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		c.envCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.profileCmd(),
		c.plansCmd(),
		c.expertsCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.envName != "" {
		name, ok := environment.Normalize(c.envName)
		if !ok {
			return fmt.Errorf("unknown environment %q", c.envName)
		}
		cfg.Environment = name
	}
	if c.home != "" {
		cfg.Home = c.home
	}

	env, err := app.ResolveEnvironment(cfg)
	if err != nil {
		return err
	}

	c.logger = app.NewLogger(env, "stderr")
	if !c.verbose {
		c.logger = c.logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	environment.LogResolved(c.logger, env)

	c.rt, err = app.NewRuntime(cmd.Context(), cfg, env, c.logger)
	return err
}

func (c *cli) close() {
	if c.rt != nil {
		c.rt.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// describe turns an error into one line for the terminal.
func describe(err error) string {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fmt.Sprintf("invalid %s: %s", vErr.Field, vErr.Reason)
	case errors.Is(err, service.ErrResyncFailed):
		return "change saved, but the plan list could not be refreshed"
	case errors.Is(err, service.ErrNotLoggedIn):
		return "not logged in, run `wellnessctl login`"
	case errors.Is(err, api.ErrUnauthorized):
		return "session expired, run `wellnessctl login`"
	}
	return api.UserMessage(err)
}
