// Package endpoint maps logical server operations to path fragments.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

// Name is a logical operation name.
type Name string

const (
	Register       Name = "auth.register"
	Login          Name = "auth.login"
	ForgotPassword Name = "auth.forgotPassword"
	SendOTP        Name = "auth.sendOTP"
	VerifyOTP      Name = "auth.verifyOTP"
	ResetPassword  Name = "auth.resetPassword"
	Profile        Name = "auth.profile"
	UpdateProfile  Name = "auth.updateProfile"

	ExpertRegister Name = "experts.register"
	ExpertList     Name = "experts.list"
	ExpertDetail   Name = "experts.detail"

	PlansMine   Name = "plans.mine"
	PlanCreate  Name = "plans.create"
	PlanUpdate  Name = "plans.update"
	PlanDelete  Name = "plans.delete"
	ExpertPlans Name = "plans.byExpert"

	CreateOrder   Name = "payments.createOrder"
	VerifyPayment Name = "payments.verify"
)

var catalog = map[Name]string{
	Register:       "/auth/register",
	Login:          "/auth/login",
	ForgotPassword: "/auth/forgot-password",
	SendOTP:        "/auth/send-otp",
	VerifyOTP:      "/auth/verify-otp",
	ResetPassword:  "/auth/reset-password",
	Profile:        "/auth/profile",
	UpdateProfile:  "/auth/profile",

	ExpertRegister: "/experts/register",
	ExpertList:     "/experts",
	ExpertDetail:   "/experts/:id",

	PlansMine:   "/plans/my-plans",
	PlanCreate:  "/plans",
	PlanUpdate:  "/plans/:id",
	PlanDelete:  "/plans/:id",
	ExpertPlans: "/plans/expert/:id",

	CreateOrder:   "/payments/create-order",
	VerifyPayment: "/payments/verify",
}

// public lists the calls made without a session. A 401 from them is a
// rejected credential, not an expired token.
var public = map[Name]bool{
	Register:       true,
	Login:          true,
	ForgotPassword: true,
	SendOTP:        true,
	VerifyOTP:      true,
	ResetPassword:  true,
}

// Public reports whether name is served without a session.
func Public(name Name) bool {
	return public[name]
}

// Lookup returns the path fragment for name.
func Lookup(name Name) (string, bool) {
	path, ok := catalog[name]
	return path, ok
}

// Path returns the fragment for name with its ":param" segments replaced by
// params in order. It panics on an unknown name or a parameter count mismatch.
func Path(name Name, params ...string) string {
	fragment, ok := catalog[name]
	if !ok {
		panic(fmt.Sprintf("endpoint: unknown logical name %q", name))
	}

	segments := strings.Split(fragment, "/")
	next := 0
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		if next >= len(params) {
			panic(fmt.Sprintf("endpoint: %q needs parameter %s", name, segment))
		}
		segments[i] = url.PathEscape(params[next])
		next++
	}
	if next != len(params) {
		panic(fmt.Sprintf("endpoint: %q takes %d parameters, got %d", name, next, len(params)))
	}

	return strings.Join(segments, "/")
}

// BuildTarget joins a base address with the fragment for name.
func BuildTarget(baseAddress string, name Name, params ...string) string {
	return strings.TrimRight(baseAddress, "/") + Path(name, params...)
}
