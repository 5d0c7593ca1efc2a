package service

import (
	"errors"
	"testing"

	"github.com/Freeeeeet/wellness_client/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleForm() *PlanForm {
	form := NewPlanForm()
	form.Name = "Morning Flow"
	form.Price = "500"
	form.Duration = "60"
	return form
}

func groupForm() *PlanForm {
	form := singleForm()
	form.SessionFormat = string(model.SessionFormatOneToMany)
	form.ScheduledDate = "2026-03-12"
	form.ScheduledTime = "07:30"
	return form
}

func monthlyForm() *PlanForm {
	form := NewPlanForm()
	form.Name = "Yoga Monthly"
	form.Type = string(model.PlanTypeMonthly)
	form.MonthlyPrice = "2000"
	form.ClassesPerMonth = "8"
	return form
}

func TestValidatePlanForm(t *testing.T) {
	tests := []struct {
		name      string
		form      func() *PlanForm
		wantField string
	}{
		{name: "valid single one-on-one", form: singleForm},
		{name: "valid group class", form: groupForm},
		{name: "valid monthly", form: monthlyForm},
		{name: "group class today", form: func() *PlanForm { f := groupForm(); f.ScheduledDate = "2026-03-10"; return f }},
		{name: "blank name", form: func() *PlanForm { f := singleForm(); f.Name = "   "; return f }, wantField: FieldName},
		{name: "unknown type", form: func() *PlanForm { f := singleForm(); f.Type = "yearly"; return f }, wantField: FieldType},
		{name: "unknown format", form: func() *PlanForm { f := singleForm(); f.SessionFormat = "group"; return f }, wantField: FieldSessionFormat},
		{name: "price zero", form: func() *PlanForm { f := singleForm(); f.Price = "0"; return f }, wantField: FieldPrice},
		{name: "price negative", form: func() *PlanForm { f := singleForm(); f.Price = "-10"; return f }, wantField: FieldPrice},
		{name: "price text", form: func() *PlanForm { f := singleForm(); f.Price = "free"; return f }, wantField: FieldPrice},
		{name: "price NaN", form: func() *PlanForm { f := singleForm(); f.Price = "NaN"; return f }, wantField: FieldPrice},
		{name: "duration text", form: func() *PlanForm { f := singleForm(); f.Duration = "an hour"; return f }, wantField: FieldDuration},
		{name: "duration below range", form: func() *PlanForm { f := singleForm(); f.Duration = "15"; return f }, wantField: FieldDuration},
		{name: "duration above range", form: func() *PlanForm { f := singleForm(); f.Duration = "255"; return f }, wantField: FieldDuration},
		{name: "duration not multiple of 15", form: func() *PlanForm { f := singleForm(); f.Duration = "50"; return f }, wantField: FieldDuration},
		{name: "group without date", form: func() *PlanForm { f := groupForm(); f.ScheduledDate = ""; return f }, wantField: FieldScheduledDate},
		{name: "group without time", form: func() *PlanForm { f := groupForm(); f.ScheduledTime = ""; return f }, wantField: FieldScheduledTime},
		{name: "group bad date", form: func() *PlanForm { f := groupForm(); f.ScheduledDate = "12/03/2026"; return f }, wantField: FieldScheduledDate},
		{name: "group bad time", form: func() *PlanForm { f := groupForm(); f.ScheduledTime = "7pm"; return f }, wantField: FieldScheduledTime},
		{name: "group date in past", form: func() *PlanForm { f := groupForm(); f.ScheduledDate = "2026-03-09"; return f }, wantField: FieldScheduledDate},
		{name: "monthly price missing", form: func() *PlanForm { f := monthlyForm(); f.MonthlyPrice = ""; return f }, wantField: FieldMonthlyPrice},
		{name: "monthly classes zero", form: func() *PlanForm { f := monthlyForm(); f.ClassesPerMonth = "0"; return f }, wantField: FieldClassesPerMonth},
		{name: "monthly classes negative", form: func() *PlanForm { f := monthlyForm(); f.ClassesPerMonth = "-2"; return f }, wantField: FieldClassesPerMonth},
		{name: "monthly classes text", form: func() *PlanForm { f := monthlyForm(); f.ClassesPerMonth = "many"; return f }, wantField: FieldClassesPerMonth},
		{name: "monthly classes fractional", form: func() *PlanForm { f := monthlyForm(); f.ClassesPerMonth = "2.5"; return f }, wantField: FieldClassesPerMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlanForm(tt.form(), testToday)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.NotEmpty(t, vErr.Reason)
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestValidatePlanForm_AcceptedDurations(t *testing.T) {
	for d := 0; d <= 300; d++ {
		form := singleForm()
		form.Duration = itoa(d)

		err := ValidatePlanForm(form, testToday)
		valid := d >= MinDuration && d <= MaxDuration && d%DurationStep == 0
		if valid {
			assert.NoError(t, err, "duration %d", d)
		} else {
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr, "duration %d", d)
			assert.Equal(t, FieldDuration, vErr.Field)
		}
	}
}

func TestValidatePlanForm_FirstFailureWins(t *testing.T) {
	form := NewPlanForm()
	form.Price = "0"
	form.Duration = "7"

	var vErr *ValidationError
	require.ErrorAs(t, ValidatePlanForm(form, testToday), &vErr)
	assert.Equal(t, FieldName, vErr.Field)

	form.Name = "Flow"
	require.ErrorAs(t, ValidatePlanForm(form, testToday), &vErr)
	assert.Equal(t, FieldPrice, vErr.Field)
}

func TestBuildPlan_MonthlyIgnoresSingleFields(t *testing.T) {
	form := monthlyForm()
	form.Duration = "50"
	form.ScheduledDate = "not a date"
	form.ScheduledTime = ""
	form.SessionFormat = string(model.SessionFormatOneToMany)

	plan, err := BuildPlan(form, testToday)
	require.NoError(t, err)

	monthly, ok := plan.Monthly()
	require.True(t, ok)
	assert.Equal(t, 2000.0, monthly.MonthlyPrice)
	assert.Equal(t, 8, monthly.ClassesPerMonth)
}

func TestBuildPlan_ScheduleOnlyForGroupClasses(t *testing.T) {
	oneOnOne := singleForm()
	oneOnOne.ScheduledDate = "2026-03-12"
	oneOnOne.ScheduledTime = "08:00"

	plan, err := BuildPlan(oneOnOne, testToday)
	require.NoError(t, err)
	single, ok := plan.Single()
	require.True(t, ok)
	assert.Nil(t, single.Schedule)

	plan, err = BuildPlan(groupForm(), testToday)
	require.NoError(t, err)
	single, ok = plan.Single()
	require.True(t, ok)
	require.NotNil(t, single.Schedule)
	assert.Equal(t, model.Schedule{Date: "2026-03-12", Time: "07:30"}, *single.Schedule)
}

func TestPlanFormFrom_RoundTrip(t *testing.T) {
	plan, err := BuildPlan(groupForm(), testToday)
	require.NoError(t, err)

	form := PlanFormFrom(plan)
	again, err := BuildPlan(form, testToday)
	require.NoError(t, err)
	assert.Equal(t, plan, again)
}

func itoa(v int) string {
	return formatAmount(float64(v))
}
