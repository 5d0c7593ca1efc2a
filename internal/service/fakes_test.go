package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/model"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testToday = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type recordedCall struct {
	Request api.Request
	Body    json.RawMessage
}

// fakePlanAPI behaves like the plan endpoints of the server.
type fakePlanAPI struct {
	mu     sync.Mutex
	plans  []model.Plan
	nextID int
	calls  []recordedCall
	fail   map[endpoint.Name]error
}

func newFakePlanAPI(plans ...model.Plan) *fakePlanAPI {
	return &fakePlanAPI{plans: plans, fail: map[endpoint.Name]error{}}
}

func (f *fakePlanAPI) Do(_ context.Context, req api.Request) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body json.RawMessage
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body = raw
	}
	f.calls = append(f.calls, recordedCall{Request: req, Body: body})

	if err := f.fail[req.Endpoint]; err != nil {
		return nil, err
	}

	switch req.Endpoint {
	case endpoint.PlansMine:
		return ok(f.plans)
	case endpoint.PlanCreate:
		var plan model.Plan
		if err := json.Unmarshal(body, &plan); err != nil {
			return nil, err
		}
		f.nextID++
		plan.ID = fmt.Sprintf("p%d", f.nextID)
		plan.CreatedAt = testToday
		f.plans = append(f.plans, plan)
		return ok(plan)
	case endpoint.PlanUpdate:
		idx := f.indexOf(req.Params[0])
		if idx < 0 {
			return nil, &api.NetworkError{Message: "Plan not found", Err: &api.StatusError{StatusCode: http.StatusNotFound}}
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		if len(fields) == 1 {
			var active bool
			if err := json.Unmarshal(fields["isActive"], &active); err != nil {
				return nil, err
			}
			f.plans[idx].IsActive = active
			return ok(f.plans[idx])
		}
		var plan model.Plan
		if err := json.Unmarshal(body, &plan); err != nil {
			return nil, err
		}
		plan.ID = f.plans[idx].ID
		plan.CreatedAt = f.plans[idx].CreatedAt
		f.plans[idx] = plan
		return ok(plan)
	case endpoint.PlanDelete:
		idx := f.indexOf(req.Params[0])
		if idx < 0 {
			return nil, &api.NetworkError{Message: "Plan not found"}
		}
		f.plans = append(f.plans[:idx], f.plans[idx+1:]...)
		return &api.Response{StatusCode: http.StatusOK, Success: true}, nil
	}

	return nil, fmt.Errorf("unexpected endpoint %q", req.Endpoint)
}

func (f *fakePlanAPI) indexOf(id string) int {
	for i := range f.plans {
		if f.plans[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *fakePlanAPI) callsTo(name endpoint.Name) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []recordedCall
	for _, c := range f.calls {
		if c.Request.Endpoint == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakePlanAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func ok(data any) (*api.Response, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &api.Response{StatusCode: http.StatusOK, Success: true, Data: raw}, nil
}

// scriptedAPI answers every call with the next scripted result.
type scriptedAPI struct {
	responses []*api.Response
	errs      []error
	calls     []api.Request
}

func (s *scriptedAPI) Do(_ context.Context, req api.Request) (*api.Response, error) {
	i := len(s.calls)
	s.calls = append(s.calls, req)

	var resp *api.Response
	var err error
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if resp == nil && err == nil {
		resp = &api.Response{StatusCode: http.StatusOK, Success: true}
	}
	return resp, err
}

func dataResponse(raw string) *api.Response {
	return &api.Response{StatusCode: http.StatusOK, Success: true, Data: json.RawMessage(raw)}
}

// slowFirstList holds back the answer of the first list fetch until released.
// The answer is the server state at the moment the fetch arrived.
type slowFirstList struct {
	*fakePlanAPI
	once     sync.Once
	arrived  chan struct{}
	released chan struct{}
}

func newSlowFirstList(fake *fakePlanAPI) *slowFirstList {
	return &slowFirstList{
		fakePlanAPI: fake,
		arrived:     make(chan struct{}),
		released:    make(chan struct{}),
	}
}

func (s *slowFirstList) Do(ctx context.Context, req api.Request) (*api.Response, error) {
	resp, err := s.fakePlanAPI.Do(ctx, req)
	if req.Endpoint != endpoint.PlansMine {
		return resp, err
	}

	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.arrived)
		<-s.released
	}
	return resp, err
}
