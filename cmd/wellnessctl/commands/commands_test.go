package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer mimics the plan and auth endpoints of the backend.
type fakeServer struct {
	mu      sync.Mutex
	plans   []map[string]any
	nextID  int
	updates []map[string]any
	creates int
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"token": "jwt-1",
			"user":  map[string]any{"_id": "u1", "name": "Asha", "email": "asha@example.com", "role": "expert"},
		})
	})
	mux.HandleFunc("GET /api/auth/profile", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{"_id": "u1", "name": "Asha", "email": "asha@example.com", "role": "expert"})
	}))
	mux.HandleFunc("GET /api/plans/my-plans", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, f.plans)
	}))
	mux.HandleFunc("POST /api/plans", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var plan map[string]any
		_ = json.NewDecoder(r.Body).Decode(&plan)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.creates++
		f.nextID++
		plan["_id"] = fmt.Sprintf("p%d", f.nextID)
		f.plans = append(f.plans, plan)
		writeData(w, plan)
	}))
	mux.HandleFunc("PUT /api/plans/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.updates = append(f.updates, body)
		for _, p := range f.plans {
			if p["_id"] == r.PathValue("id") {
				for k, v := range body {
					p[k] = v
				}
				writeData(w, p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Plan not found"}`))
	}))
	mux.HandleFunc("DELETE /api/plans/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, p := range f.plans {
			if p["_id"] == r.PathValue("id") {
				f.plans = append(f.plans[:i], f.plans[i+1:]...)
				break
			}
		}
		writeData(w, nil)
	}))

	return mux
}

func (f *fakeServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer jwt-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Not authorized"}`))
			return
		}
		next(w, r)
	}
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func setupCLI(t *testing.T) *fakeServer {
	t.Helper()

	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	envFile := filepath.Join(dir, "environments.yaml")
	yaml := fmt.Sprintf("development:\n  base_address: %s/api\n", srv.URL)
	require.NoError(t, os.WriteFile(envFile, []byte(yaml), 0o600))

	for _, key := range []string{"APP_ENV", "DB_DSN", "HTTP_TIMEOUT", "PLANS_REFRESH_INTERVAL", "TELEGRAM_OWNER_ID", "WELLNESS_PASSWORD"} {
		t.Setenv(key, "")
	}
	t.Setenv("ENVIRONMENTS_FILE", envFile)
	t.Setenv("WELLNESS_HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)

	return fake
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_PlanLifecycle(t *testing.T) {
	fake := setupCLI(t)

	out, err := run(t, "login", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Asha")

	out, err = run(t, "plans", "create", "--name", "Morning Flow", "--price", "500", "--duration", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "Created plan p1")
	require.Len(t, fake.plans, 1)
	assert.Equal(t, true, fake.plans[0]["isActive"])
	assert.NotContains(t, fake.plans[0], "scheduledDate")

	out, err = run(t, "plans", "toggle", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "now inactive")
	require.Len(t, fake.updates, 1)
	assert.Equal(t, map[string]any{"isActive": false}, fake.updates[0])

	out, err = run(t, "plans", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning Flow")
	assert.Contains(t, out, "60 min")
	assert.Contains(t, out, "false")

	out, err = run(t, "plans", "update", "p1", "--price", "650")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated plan p1")
	require.Len(t, fake.updates, 2)
	assert.Equal(t, 650.0, fake.updates[1]["price"])
	assert.Equal(t, "Morning Flow", fake.updates[1]["name"])
	assert.Equal(t, false, fake.updates[1]["isActive"])

	_, err = run(t, "plans", "delete", "p1")
	assert.Error(t, err)
	assert.Len(t, fake.plans, 1)

	out, err = run(t, "plans", "delete", "p1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan p1")
	assert.Empty(t, fake.plans)
}

func TestCLI_InvalidPlanNeverReachesServer(t *testing.T) {
	fake := setupCLI(t)

	_, err := run(t, "login", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)

	_, err = run(t, "plans", "create", "--name", "Group", "--format", "one-to-many", "--price", "300", "--duration", "45")

	var vErr *service.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, service.FieldScheduledDate, vErr.Field)
	assert.Zero(t, fake.creates)
	assert.Equal(t, "invalid scheduledDate: date is required for group sessions", describe(err))
}

func TestCLI_LogoutForgetsSession(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "login", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)

	out, err := run(t, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "asha@example.com")

	_, err = run(t, "logout")
	require.NoError(t, err)

	_, err = run(t, "profile")
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)
}

func TestCLI_Env(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "environment: development")
	assert.Contains(t, out, "1. http://127.0.0.1:")
	assert.Contains(t, out, "logged in:   false")

	_, err = run(t, "--env", "qa", "env")
	assert.Error(t, err)
}
