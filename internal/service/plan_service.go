package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"go.uber.org/zap"
)

// PlanService manages the signed-in practitioner's plans. It keeps a cache of
// the server list that is re-read after every successful mutation.
type PlanService struct {
	api    Requester
	clock  Clock
	logger *zap.Logger

	mu    sync.RWMutex
	plans []model.Plan
	// fetches are numbered when sent; a response older than the stored one is dropped
	sent   uint64
	stored uint64
}

func NewPlanService(api Requester, clock Clock, logger *zap.Logger) *PlanService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PlanService{
		api:    api,
		clock:  clock,
		logger: logger,
	}
}

// Plans returns a copy of the cached list.
func (s *PlanService) Plans() []model.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Plan(nil), s.plans...)
}

// Find looks a plan up in the cache.
func (s *PlanService) Find(id string) (*model.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.plans {
		if s.plans[i].ID == id {
			plan := s.plans[i]
			return &plan, true
		}
	}
	return nil, false
}

// Validate checks form against today's date.
func (s *PlanService) Validate(form *PlanForm) error {
	return ValidatePlanForm(form, s.clock.Now())
}

// ListMine fetches the practitioner's plans and replaces the cache. On error the
// cache keeps its previous value. A fetch that was sent before the one already
// stored does not overwrite it, and the newer cached list is returned instead.
func (s *PlanService) ListMine(ctx context.Context) ([]model.Plan, error) {
	s.mu.Lock()
	s.sent++
	seq := s.sent
	s.mu.Unlock()

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Endpoint: endpoint.PlansMine})
	if err != nil {
		s.logger.Error("Failed to fetch plans", zap.Error(err))
		return nil, err
	}

	plans, err := decodePlanList(resp)
	if err != nil {
		s.logger.Error("Failed to decode plans", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	if seq < s.stored {
		current := append([]model.Plan(nil), s.plans...)
		s.mu.Unlock()
		s.logger.Debug("Dropped outdated plan list",
			zap.Uint64("fetch", seq),
			zap.Uint64("stored", s.stored))
		return current, nil
	}
	s.plans = plans
	s.stored = seq
	s.mu.Unlock()

	s.logger.Info("Retrieved plans", zap.Int("count", len(plans)))

	return append([]model.Plan(nil), plans...), nil
}

// Create validates form, sends it and refreshes the cache. New plans start
// active. The form is reset once the server accepted the plan.
func (s *PlanService) Create(ctx context.Context, form *PlanForm) (*model.Plan, error) {
	plan, err := BuildPlan(form, s.clock.Now())
	if err != nil {
		s.logger.Warn("Plan form rejected", zap.Error(err))
		return nil, err
	}
	plan.IsActive = true

	s.logger.Info("Creating plan",
		zap.String("name", plan.Name),
		zap.String("type", string(plan.Type())),
		zap.String("session_format", string(plan.SessionFormat)))

	resp, err := s.api.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Endpoint: endpoint.PlanCreate,
		Body:     plan,
	})
	if err != nil {
		s.logger.Error("Failed to create plan",
			zap.String("name", plan.Name),
			zap.Error(err))
		return nil, err
	}

	created := decodePlan(resp, plan)

	form.Reset()

	s.logger.Info("Plan created",
		zap.String("plan_id", created.ID),
		zap.String("name", created.Name))

	return created, s.resync(ctx)
}

// Update validates form and replaces plan id, including its active flag. A
// cached group class may keep a date that has already passed; moving it to
// another date is checked against today.
func (s *PlanService) Update(ctx context.Context, id string, form *PlanForm) (*model.Plan, error) {
	if id == "" {
		return nil, ErrPlanNotFound
	}

	var keptDate string
	if cached, ok := s.Find(id); ok {
		if single, ok := cached.Single(); ok && single.Schedule != nil {
			keptDate = single.Schedule.Date
		}
	}

	plan, err := buildPlan(form, s.clock.Now(), keptDate)
	if err != nil {
		s.logger.Warn("Plan form rejected",
			zap.String("plan_id", id),
			zap.Error(err))
		return nil, err
	}

	resp, err := s.api.Do(ctx, api.Request{
		Method:   http.MethodPut,
		Endpoint: endpoint.PlanUpdate,
		Params:   []string{id},
		Body:     plan,
	})
	if err != nil {
		s.logger.Error("Failed to update plan",
			zap.String("plan_id", id),
			zap.Error(err))
		return nil, err
	}

	plan.ID = id
	updated := decodePlan(resp, plan)

	s.logger.Info("Plan updated",
		zap.String("plan_id", id),
		zap.Bool("is_active", updated.IsActive))

	return updated, s.resync(ctx)
}

// ToggleActive sends only the negated active flag. Field completeness is not
// checked. The current flag is taken from the cache when the plan is cached,
// otherwise from plan.
func (s *PlanService) ToggleActive(ctx context.Context, plan *model.Plan) error {
	if plan == nil || plan.ID == "" {
		return ErrPlanNotFound
	}

	current := plan.IsActive
	if cached, ok := s.Find(plan.ID); ok {
		current = cached.IsActive
	}

	_, err := s.api.Do(ctx, api.Request{
		Method:   http.MethodPut,
		Endpoint: endpoint.PlanUpdate,
		Params:   []string{plan.ID},
		Body:     map[string]bool{"isActive": !current},
	})
	if err != nil {
		s.logger.Error("Failed to toggle plan",
			zap.String("plan_id", plan.ID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Plan active toggled",
		zap.String("plan_id", plan.ID),
		zap.Bool("is_active", !current))

	return s.resync(ctx)
}

// Delete removes plan id permanently. Callers confirm with the user first.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrPlanNotFound
	}

	_, err := s.api.Do(ctx, api.Request{
		Method:   http.MethodDelete,
		Endpoint: endpoint.PlanDelete,
		Params:   []string{id},
	})
	if err != nil {
		s.logger.Error("Failed to delete plan",
			zap.String("plan_id", id),
			zap.Error(err))
		return err
	}

	s.logger.Info("Plan deleted", zap.String("plan_id", id))

	return s.resync(ctx)
}

func (s *PlanService) resync(ctx context.Context) error {
	if _, err := s.ListMine(ctx); err != nil {
		s.logger.Warn("Plan cache is stale after mutation", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrResyncFailed, err)
	}
	return nil
}

// decodePlanList accepts data as a bare array or as {"plans": [...]}.
func decodePlanList(resp *api.Response) ([]model.Plan, error) {
	var plans []model.Plan
	err := api.DecodeData(resp, &plans)
	if err == nil {
		return plans, nil
	}
	if errors.Is(err, api.ErrEmptyData) {
		return []model.Plan{}, nil
	}

	var wrapped struct {
		Plans []model.Plan `json:"plans"`
	}
	if wrappedErr := json.Unmarshal(resp.Data, &wrapped); wrappedErr != nil || wrapped.Plans == nil {
		return nil, fmt.Errorf("decode plan list: %w", err)
	}
	return wrapped.Plans, nil
}

// decodePlan returns the plan echoed by the server as data or data.plan, or
// fallback when the response carries neither.
func decodePlan(resp *api.Response, fallback *model.Plan) *model.Plan {
	var plan model.Plan
	if err := api.DecodeData(resp, &plan); err == nil {
		return &plan
	}

	var wrapped struct {
		Plan *model.Plan `json:"plan"`
	}
	if err := json.Unmarshal(resp.Data, &wrapped); err == nil && wrapped.Plan != nil {
		return wrapped.Plan
	}

	return fallback
}
