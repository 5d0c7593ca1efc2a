package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/config"
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/Freeeeeet/wellness_client/internal/repository"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/Freeeeeet/wellness_client/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Runtime is the wired service layer shared by the bot and the CLI.
type Runtime struct {
	Environment environment.Environment
	Session     *session.Store
	Client      *api.Client
	Auth        *service.AuthService
	Plans       *service.PlanService
	Experts     *service.ExpertService
	Payments    *service.PaymentService

	pool *pgxpool.Pool
}

// ResolveEnvironment loads the environment table and picks the configured tier.
func ResolveEnvironment(cfg *config.Config) (environment.Environment, error) {
	table, err := environment.LoadTable(cfg.EnvironmentsFile)
	if err != nil {
		return environment.Environment{}, err
	}
	return table.Resolve(cfg.Environment), nil
}

// NewRuntime opens the session backend, restores the saved credential and
// builds the services. With DB_DSN set the credential lives in Postgres,
// otherwise in a file under the home directory.
func NewRuntime(ctx context.Context, cfg *config.Config, env environment.Environment, logger *zap.Logger) (*Runtime, error) {
	rt := &Runtime{Environment: env}

	backend, err := rt.openBackend(ctx, cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Session = session.NewStore(backend, logger)
	if err := rt.Session.Restore(ctx); err != nil {
		// a missing session is fine, the user signs in again
		logger.Warn("Failed to restore session", zap.Error(err))
	}

	rt.Client = api.NewForEnvironment(env, rt.Session, logger,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithUnauthorizedHandler(func(ctx context.Context) {
			if err := rt.Session.Clear(ctx); err != nil {
				logger.Warn("Failed to clear rejected session", zap.Error(err))
			}
		}),
	)

	rt.Auth = service.NewAuthService(rt.Client, rt.Session, logger)
	rt.Plans = service.NewPlanService(rt.Client, service.SystemClock{}, logger)
	rt.Experts = service.NewExpertService(rt.Client, logger)
	rt.Payments = service.NewPaymentService(rt.Client, logger)

	return rt, nil
}

func (rt *Runtime) openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Backend, error) {
	if !cfg.HasDatabase() {
		dir := filepath.Join(cfg.Home, cfg.SessionProfile)
		logger.Info("Using file session storage", zap.String("dir", dir))
		return session.NewFileBackend(dir), nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	rt.pool = pool

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return nil, err
	}

	logger.Info("Using Postgres session storage", zap.String("profile", cfg.SessionProfile))
	return repository.NewTokenRepository(pool, cfg.SessionProfile, logger), nil
}

// Close releases the database pool, if any.
func (rt *Runtime) Close() {
	if rt.pool != nil {
		rt.pool.Close()
	}
}
