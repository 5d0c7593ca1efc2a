package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/wellness_client/internal/api"
)

var (
	ErrInvalidPlan  = errors.New("invalid plan")
	ErrResyncFailed = errors.New("plan list refresh failed")
	ErrPlanNotFound = errors.New("plan not found")
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrMissingToken = errors.New("login response carries no token")
)

// Requester is the part of the network client the services use.
type Requester interface {
	Do(ctx context.Context, req api.Request) (*api.Response, error)
}

// Clock abstracts time to keep date validation deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
