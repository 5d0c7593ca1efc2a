package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/wellness_client/internal/model"
)

// Duration bounds of a single session, in minutes.
const (
	MinDuration  = 30
	MaxDuration  = 240
	DurationStep = 15
)

// Form field names reported in ValidationError.Field.
const (
	FieldName            = "name"
	FieldType            = "type"
	FieldSessionFormat   = "sessionFormat"
	FieldPrice           = "price"
	FieldDuration        = "duration"
	FieldScheduledDate   = "scheduledDate"
	FieldScheduledTime   = "scheduledTime"
	FieldMonthlyPrice    = "monthlyPrice"
	FieldClassesPerMonth = "classesPerMonth"
)

// ValidationError names the first form field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPlan
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ValidatePlanForm checks form without touching the network. Rules run in a
// fixed order and the first failure is returned. today bounds the schedule date.
func ValidatePlanForm(form *PlanForm, today time.Time) error {
	_, err := BuildPlan(form, today)
	return err
}

// BuildPlan validates form and maps it to the plan shape sent to the server.
// The schedule is kept only for single group classes.
func BuildPlan(form *PlanForm, today time.Time) (*model.Plan, error) {
	return buildPlan(form, today, "")
}

// buildPlan is BuildPlan with keptDate exempt from the not-before-today rule, so
// an existing class keeps its date when other fields are edited.
func buildPlan(form *PlanForm, today time.Time, keptDate string) (*model.Plan, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, invalid(FieldName, "name is required")
	}

	planType := model.PlanType(strings.ToLower(strings.TrimSpace(form.Type)))
	if planType != model.PlanTypeSingle && planType != model.PlanTypeMonthly {
		return nil, invalid(FieldType, "type must be single or monthly")
	}

	format := model.SessionFormat(strings.ToLower(strings.TrimSpace(form.SessionFormat)))
	if format == "" {
		format = model.SessionFormatOneOnOne
	}
	if format != model.SessionFormatOneOnOne && format != model.SessionFormatOneToMany {
		return nil, invalid(FieldSessionFormat, "session format must be one-on-one or one-to-many")
	}

	plan := &model.Plan{
		Name:             name,
		Description:      strings.TrimSpace(form.Description),
		SessionClassType: strings.TrimSpace(form.SessionClassType),
		SessionFormat:    format,
		IsActive:         form.IsActive,
	}

	switch planType {
	case model.PlanTypeSingle:
		offering, err := buildSingle(form, format, today, keptDate)
		if err != nil {
			return nil, err
		}
		plan.Offering = offering
	case model.PlanTypeMonthly:
		offering, err := buildMonthly(form)
		if err != nil {
			return nil, err
		}
		plan.Offering = offering
	}

	return plan, nil
}

func buildSingle(form *PlanForm, format model.SessionFormat, today time.Time, keptDate string) (*model.SingleOffering, error) {
	price, ok := parsePositiveAmount(form.Price)
	if !ok {
		return nil, invalid(FieldPrice, "price must be a number greater than 0")
	}

	duration, err := strconv.Atoi(strings.TrimSpace(form.Duration))
	if err != nil {
		return nil, invalid(FieldDuration, "duration must be a whole number of minutes")
	}
	if duration < MinDuration || duration > MaxDuration || duration%DurationStep != 0 {
		return nil, invalid(FieldDuration,
			fmt.Sprintf("duration must be between %d and %d minutes in steps of %d", MinDuration, MaxDuration, DurationStep))
	}

	offering := &model.SingleOffering{Price: price, Duration: duration}
	if format != model.SessionFormatOneToMany {
		return offering, nil
	}

	date := strings.TrimSpace(form.ScheduledDate)
	if date == "" {
		return nil, invalid(FieldScheduledDate, "date is required for group sessions")
	}
	clock := strings.TrimSpace(form.ScheduledTime)
	if clock == "" {
		return nil, invalid(FieldScheduledTime, "time is required for group sessions")
	}

	day, err := time.ParseInLocation(model.DateLayout, date, today.Location())
	if err != nil {
		return nil, invalid(FieldScheduledDate, "date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(model.TimeLayout, clock); err != nil {
		return nil, invalid(FieldScheduledTime, "time must be in HH:MM format")
	}

	y, m, d := today.Date()
	if date != keptDate && day.Before(time.Date(y, m, d, 0, 0, 0, 0, today.Location())) {
		return nil, invalid(FieldScheduledDate, "date cannot be in the past")
	}

	offering.Schedule = &model.Schedule{Date: date, Time: clock}
	return offering, nil
}

func buildMonthly(form *PlanForm) (*model.MonthlyOffering, error) {
	price, ok := parsePositiveAmount(form.MonthlyPrice)
	if !ok {
		return nil, invalid(FieldMonthlyPrice, "monthly price must be a number greater than 0")
	}

	classes, err := strconv.Atoi(strings.TrimSpace(form.ClassesPerMonth))
	if err != nil || classes <= 0 {
		return nil, invalid(FieldClassesPerMonth, "classes per month must be a whole number greater than 0")
	}

	return &model.MonthlyOffering{MonthlyPrice: price, ClassesPerMonth: classes}, nil
}

func parsePositiveAmount(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
