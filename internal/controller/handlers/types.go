package handlers

import (
	"github.com/Freeeeeet/wellness_client/internal/controller/state"
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	authService  *service.AuthService
	planService  *service.PlanService
	environment  environment.Name
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewHandlers(
	authService *service.AuthService,
	planService *service.PlanService,
	env environment.Name,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		authService:  authService,
		planService:  planService,
		environment:  env,
		stateManager: stateManager,
		logger:       logger,
	}
}
