package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTarget(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		ep     Name
		params []string
		want   string
	}{
		{name: "login", base: "http://localhost:5000/api", ep: Login, want: "http://localhost:5000/api/auth/login"},
		{name: "trailing slash on base", base: "http://localhost:5000/api/", ep: PlansMine, want: "http://localhost:5000/api/plans/my-plans"},
		{name: "expert detail", base: "https://api.test/api", ep: ExpertDetail, params: []string{"e42"}, want: "https://api.test/api/experts/e42"},
		{name: "plan update", base: "https://api.test/api", ep: PlanUpdate, params: []string{"p1"}, want: "https://api.test/api/plans/p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildTarget(tt.base, tt.ep, tt.params...))
		})
	}
}

func TestEveryNameHasAFragment(t *testing.T) {
	names := []Name{
		Register, Login, ForgotPassword, SendOTP, VerifyOTP, ResetPassword, Profile, UpdateProfile,
		ExpertRegister, ExpertList, ExpertDetail,
		PlansMine, PlanCreate, PlanUpdate, PlanDelete, ExpertPlans,
		CreateOrder, VerifyPayment,
	}
	for _, name := range names {
		path, ok := Lookup(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, path, name)
	}
}

func TestPath_ProgrammerErrorsPanic(t *testing.T) {
	assert.Panics(t, func() { Path("plans.unknown") })
	assert.Panics(t, func() { Path(ExpertDetail) })
	assert.Panics(t, func() { Path(Login, "extra") })

	_, ok := Lookup("plans.unknown")
	assert.False(t, ok)
}

func TestPublic(t *testing.T) {
	for _, name := range []Name{Register, Login, ForgotPassword, SendOTP, VerifyOTP, ResetPassword} {
		assert.True(t, Public(name), name)
	}
	for _, name := range []Name{Profile, UpdateProfile, PlansMine, PlanUpdate, ExpertRegister, CreateOrder, "plans.unknown"} {
		assert.False(t, Public(name), name)
	}
}
