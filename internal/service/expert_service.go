package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"go.uber.org/zap"
)

// ExpertFilter narrows the directory listing. Empty fields are not sent.
type ExpertFilter struct {
	Specialization string
	Search         string
}

type ExpertService struct {
	api    Requester
	logger *zap.Logger
}

func NewExpertService(api Requester, logger *zap.Logger) *ExpertService {
	return &ExpertService{
		api:    api,
		logger: logger,
	}
}

// List returns the public expert directory.
func (s *ExpertService) List(ctx context.Context, filter ExpertFilter) ([]model.Expert, error) {
	query := url.Values{}
	if v := strings.TrimSpace(filter.Specialization); v != "" {
		query.Set("specialization", v)
	}
	if v := strings.TrimSpace(filter.Search); v != "" {
		query.Set("search", v)
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Endpoint: endpoint.ExpertList, Query: query})
	if err != nil {
		s.logger.Error("Failed to list experts", zap.Error(err))
		return nil, err
	}

	var experts []model.Expert
	if err := api.DecodeData(resp, &experts); err != nil {
		if errors.Is(err, api.ErrEmptyData) {
			return []model.Expert{}, nil
		}
		return nil, fmt.Errorf("decode experts: %w", err)
	}

	s.logger.Info("Retrieved experts", zap.Int("count", len(experts)))
	return experts, nil
}

// Get returns one expert by id.
func (s *ExpertService) Get(ctx context.Context, id string) (*model.Expert, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("expert id is required")
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Endpoint: endpoint.ExpertDetail, Params: []string{id}})
	if err != nil {
		return nil, err
	}

	var expert model.Expert
	if err := api.DecodeData(resp, &expert); err != nil {
		return nil, fmt.Errorf("decode expert: %w", err)
	}
	return &expert, nil
}

// Plans returns the plans an expert offers to clients.
func (s *ExpertService) Plans(ctx context.Context, expertID string) ([]model.Plan, error) {
	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Endpoint: endpoint.ExpertPlans, Params: []string{expertID}})
	if err != nil {
		return nil, err
	}
	return decodePlanList(resp)
}

// Register submits the signed-in account's expert application.
func (s *ExpertService) Register(ctx context.Context, reg model.ExpertRegistration) (*model.Expert, error) {
	if strings.TrimSpace(reg.Specialization) == "" {
		return nil, fmt.Errorf("specialization is required")
	}
	if reg.ExperienceYears < 0 {
		return nil, fmt.Errorf("experience cannot be negative")
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodPost, Endpoint: endpoint.ExpertRegister, Body: reg})
	if err != nil {
		s.logger.Error("Failed to register expert", zap.Error(err))
		return nil, err
	}

	var expert model.Expert
	if err := api.DecodeData(resp, &expert); err != nil && !errors.Is(err, api.ErrEmptyData) {
		return nil, fmt.Errorf("decode expert: %w", err)
	}

	s.logger.Info("Expert registered",
		zap.String("expert_id", expert.ID),
		zap.String("specialization", reg.Specialization))

	return &expert, nil
}
