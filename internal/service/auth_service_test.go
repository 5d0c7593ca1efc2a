package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryTokens struct {
	token  string
	sets   int
	setErr error
}

func (m *memoryTokens) Set(_ context.Context, token string) error {
	m.sets++
	m.token = token
	return m.setErr
}

func (m *memoryTokens) Clear(context.Context) error {
	m.token = ""
	return nil
}

func (m *memoryTokens) HasToken() bool { return m.token != "" }

func TestAuthService_LoginStoresToken(t *testing.T) {
	scripted := &scriptedAPI{responses: []*api.Response{
		dataResponse(`{"token":"jwt-1","user":{"_id":"u1","name":"Asha","email":"asha@example.com","role":"expert"}}`),
	}}
	tokens := &memoryTokens{}
	svc := NewAuthService(scripted, tokens, zap.NewNop())

	user, err := svc.Login(context.Background(), " asha@example.com ", "secret")
	require.NoError(t, err)

	assert.Equal(t, "jwt-1", tokens.token)
	assert.Equal(t, 1, tokens.sets)
	assert.True(t, user.IsExpert())

	require.Len(t, scripted.calls, 1)
	assert.Equal(t, endpoint.Login, scripted.calls[0].Endpoint)
	body, err := json.Marshal(scripted.calls[0].Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"asha@example.com","password":"secret"}`, string(body))
}

func TestAuthService_LoginKeepsSessionWhenPersistenceFails(t *testing.T) {
	scripted := &scriptedAPI{responses: []*api.Response{dataResponse(`{"token":"jwt-1"}`)}}
	tokens := &memoryTokens{setErr: errors.New("disk full")}
	svc := NewAuthService(scripted, tokens, zap.NewNop())

	_, err := svc.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.True(t, tokens.HasToken())
}

func TestAuthService_LoginWithoutToken(t *testing.T) {
	tests := []struct {
		name string
		resp *api.Response
	}{
		{name: "empty data", resp: &api.Response{Success: true}},
		{name: "blank token", resp: dataResponse(`{"token":"","user":{"_id":"u1"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &memoryTokens{}
			svc := NewAuthService(&scriptedAPI{responses: []*api.Response{tt.resp}}, tokens, zap.NewNop())

			_, err := svc.Login(context.Background(), "a@b.c", "pw")
			assert.ErrorIs(t, err, ErrMissingToken)
			assert.Zero(t, tokens.sets)
		})
	}
}

func TestAuthService_LoginFailurePropagates(t *testing.T) {
	failure := &api.NetworkError{Message: "Invalid credentials"}
	tokens := &memoryTokens{token: "old"}
	svc := NewAuthService(&scriptedAPI{errs: []error{failure}}, tokens, zap.NewNop())

	_, err := svc.Login(context.Background(), "a@b.c", "wrong")
	assert.Same(t, failure, err)
	assert.Equal(t, "old", tokens.token)
}

func TestAuthService_LoginRequiresCredentials(t *testing.T) {
	scripted := &scriptedAPI{}
	svc := NewAuthService(scripted, &memoryTokens{}, zap.NewNop())

	_, err := svc.Login(context.Background(), "  ", "pw")
	assert.Error(t, err)
	assert.Empty(t, scripted.calls)
}

func TestAuthService_RegisterNeverStoresToken(t *testing.T) {
	scripted := &scriptedAPI{responses: []*api.Response{
		dataResponse(`{"token":"jwt-from-register","user":{"_id":"u2","email":"new@example.com","role":"user"}}`),
	}}
	tokens := &memoryTokens{}
	svc := NewAuthService(scripted, tokens, zap.NewNop())

	user, err := svc.Register(context.Background(), Registration{
		Name:     "New",
		Email:    "new@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Zero(t, tokens.sets)
	assert.False(t, tokens.HasToken())
}

func TestAuthService_ProfileRequiresSession(t *testing.T) {
	scripted := &scriptedAPI{}
	svc := NewAuthService(scripted, &memoryTokens{}, zap.NewNop())

	_, err := svc.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	name := "Asha"
	_, err = svc.UpdateProfile(context.Background(), model.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	assert.Empty(t, scripted.calls)
}

func TestAuthService_ProfileShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bare user", data: `{"_id":"u1","email":"asha@example.com"}`},
		{name: "wrapped user", data: `{"user":{"_id":"u1","email":"asha@example.com"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripted := &scriptedAPI{responses: []*api.Response{dataResponse(tt.data)}}
			svc := NewAuthService(scripted, &memoryTokens{token: "jwt"}, zap.NewNop())

			user, err := svc.Profile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "u1", user.ID)
			assert.Equal(t, "asha@example.com", user.Email)
		})
	}
}

func TestAuthService_UpdateProfileSendsOnlySetFields(t *testing.T) {
	scripted := &scriptedAPI{responses: []*api.Response{dataResponse(`{"_id":"u1","phone":"+100"}`)}}
	svc := NewAuthService(scripted, &memoryTokens{token: "jwt"}, zap.NewNop())

	phone := "+100"
	user, err := svc.UpdateProfile(context.Background(), model.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "+100", user.Phone)

	body, err := json.Marshal(scripted.calls[0].Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone":"+100"}`, string(body))
}

func TestAuthService_Logout(t *testing.T) {
	tokens := &memoryTokens{token: "jwt"}
	svc := NewAuthService(&scriptedAPI{}, tokens, zap.NewNop())

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, tokens.HasToken())
}

func TestAuthService_PasswordReset(t *testing.T) {
	scripted := &scriptedAPI{}
	svc := NewAuthService(scripted, &memoryTokens{}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, "a@b.c"))
	require.NoError(t, svc.VerifyOTP(ctx, "a@b.c", " 123456 "))
	require.NoError(t, svc.ResetPassword(ctx, "a@b.c", "123456", "new-secret"))
	assert.Error(t, svc.ResetPassword(ctx, "a@b.c", "123456", ""))

	require.Len(t, scripted.calls, 3)
	assert.Equal(t, endpoint.SendOTP, scripted.calls[0].Endpoint)
	assert.Equal(t, endpoint.VerifyOTP, scripted.calls[1].Endpoint)
	assert.Equal(t, map[string]string{"email": "a@b.c", "otp": "123456"}, scripted.calls[1].Body)
	assert.Equal(t, endpoint.ResetPassword, scripted.calls[2].Endpoint)
}
